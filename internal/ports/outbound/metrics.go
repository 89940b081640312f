package outbound

// MetricsRecorder publishes engine counters to the monitoring backend
type MetricsRecorder interface {
	SuggestionServed(fallback bool)
	FallbackGeneration(stage string)
	FeedbackRecorded(sentiment string)
	DailyUpdatePass(updated, failed int)
}
