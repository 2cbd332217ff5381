package hermes

const (
	SubjectRPCAnalyze = "triage.rpc.analyze"
	SubjectRPCSuggest = "triage.rpc.suggest"

	// QueueGroup lets several triage instances share request/reply load.
	QueueGroup = "triage"

	StreamName   = "TRIAGE_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

// StreamSubjects are the event subjects captured by StreamName. The rpc
// subjects are deliberately excluded.
var StreamSubjects = []string{"triage.analysis.>", "triage.suggestion.>"}

func SubjectAnalysisCompleted(analysisID string) string {
	return "triage.analysis." + analysisID + ".completed"
}

func SubjectSuggestionCompleted(analysisID string) string {
	return "triage.suggestion." + analysisID + ".completed"
}

func SubjectCycleDetected(analysisID string) string {
	return "triage.analysis." + analysisID + ".cycle_detected"
}
