package descriptions

// Tool names
const (
	ExtractCandidateFields = "extract_candidate_fields"
	RunCandidateBatch      = "run_candidate_batch"
)

const (
	ExtractCandidateFieldsDescription = `Read one candidate registration form and return its labeled fields.

**When to use:** Checking a single form before a batch run, or answering a question about one candidate.

**Why it's useful:** Runs the same normalization and label lookup as the batch, so what you see here is exactly what lands in the report.

**Examples:**
• Check one form: "What did asha-rao.pdf fill in for (State)?"
• Debug a failed row: "Why is the mobile number empty for form-017.pdf?"

**Fields returned:** (Candidate's Name), (Email Address), (State), (Mobile Number), (Emergency Mobile Number). A label that does not appear in the form is reported as not found.

**Best practices:** Use the full path; only .pdf files with a text layer can be read, scanned images return no fields.`

	RunCandidateBatchDescription = `Extract every PDF form in a directory and write the candidate report.

**When to use:** Collecting all registrations in a folder into one table.

**Why it's useful:** Produces the same CSV (and optionally XLSX) report as the command line tool and lists the forms that are missing fields.

**Examples:**
• Default input folder: "Run the candidate batch"
• Another folder: "Run the candidate batch on /data/registrations/2026"

**Output:** Total, Success and Failed counts, the incomplete forms with their missing labels, and the paths of the report files written.

**Best practices:** Only files directly inside the directory are processed; subfolders are skipped.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ExtractCandidateFields: ExtractCandidateFieldsDescription,
	RunCandidateBatch:      RunCandidateBatchDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}
