// Package minio archives todo events to an S3-compatible object store with
// minio-go. Each event becomes one JSON object; the archive is a
// todo.Publisher and runs next to the Kafka and RabbitMQ publishers.
//
//	MINIO_ENABLED=true
//	MINIO_ENDPOINT=localhost:9000
//	MINIO_ACCESS_KEY_ID=minioadmin
//	MINIO_SECRET_ACCESS_KEY=minioadmin
//	MINIO_BUCKET=todo-events
//	MINIO_PREFIX=events
package minio
