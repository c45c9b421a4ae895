package todo

// Config tunes the todo repositories.
type Config struct {
	// ParallelThreshold is the collection size from which the in-memory
	// repository evaluates filters on several goroutines. 0 disables it.
	ParallelThreshold int `envconfig:"TODO_PARALLEL_THRESHOLD" default:"10000"`

	// FilterWorkers bounds the goroutines used for parallel evaluation.
	// 0 means runtime.GOMAXPROCS(0).
	FilterWorkers int `envconfig:"TODO_FILTER_WORKERS" default:"0"`

	// AutoMigrate creates the todos table on startup when a SQL store is used.
	AutoMigrate bool `envconfig:"TODO_AUTO_MIGRATE" default:"true"`
}
