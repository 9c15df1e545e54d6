package dispatch

// Persisted layout under <instance>/json, consumed by the downstream
// report generators and the web visualizer. The dispatcher creates the
// directories; the collaborators fill them.
const (
	// SummaryDir holds the normalized dataset and audit outputs.
	SummaryDir = "SUMMARY"
	// ViewDir holds the first visualizer view.
	ViewDir = "VIEW1"

	// Files written into SummaryDir by the processing stage.
	DatasetFile      = "dataset"
	AuditSummaryFile = "auditSummary"
	DatasetHTMLFile  = "dataset.html"
	AuditOutputFile  = "auditOutput"
)
