package workers

import "hireassist/models"

// LogFunc is a function that logs to the ingest_logs table
type LogFunc func(level models.LogLevel, companyName, message string)

// NoOpLogger does nothing (default)
var NoOpLogger LogFunc = func(level models.LogLevel, companyName, message string) {}
