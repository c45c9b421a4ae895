package filter

import "time"

type item struct {
	ID        int `gorm:"primaryKey;autoIncrement:false"`
	Name      string
	Completed bool
	Score     float64
	CreatedAt time.Time
}

var itemSchema = NewSchema("item",
	IntField("id", func(i item) int32 { return int32(i.ID) }),
	TextField("name", func(i item) string { return i.Name }),
	BoolField("completed", func(i item) bool { return i.Completed }),
	FloatField("score", func(i item) float64 { return i.Score }),
	TimeField("createdAt", func(i item) time.Time { return i.CreatedAt }),
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleItems() []item {
	return []item{
		{ID: 1, Name: "cat", Completed: true, Score: 1.5, CreatedAt: baseTime},
		{ID: 2, Name: "apple", Completed: false, Score: 2.5, CreatedAt: baseTime.Add(time.Hour)},
		{ID: 3, Name: "CAT", Completed: true, Score: -0.5, CreatedAt: baseTime.Add(2 * time.Hour)},
		{ID: 4, Name: "50% off_sale", Completed: false, Score: 10, CreatedAt: baseTime.Add(24 * time.Hour)},
	}
}

func ids(items []item) []int {
	out := make([]int, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}
