package constants

const (
	MsgUnknownFormat      = "Unknown document format"
	MsgUnknownEntity      = "Unknown import entity"
	MsgEmptyDocument      = "Document contains no data rows"
	MsgDocumentTooLarge   = "Document exceeds maximum allowed size"
	MsgConflictsBlocked   = "Near-duplicate conflicts present; resubmit with overrideConflicts to proceed"
	MsgCommitFailed       = "Import commit failed"
	MsgInvalidImportSrc   = "Invalid import source"
	MsgMappingNotFound    = "Type mapping not found"
	MsgMissingActor       = "Unauthorized: missing actor identity"
)
