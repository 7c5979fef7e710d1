package domain

// Parameter and message names used by the host when it invokes a retrieval stage
const (
	MessageRetrieveMultiple       = "RetrieveMultiple"
	ParamQuery                    = "Query"
	ParamBusinessEntityCollection = "BusinessEntityCollection"
)

// PluginContext is the execution context the host passes to a retrieval stage.
// InputParameters[ParamQuery] holds a Query, OutputParameters[ParamBusinessEntityCollection]
// holds an *EntityCollection.
type PluginContext struct {
	MessageName       string
	PrimaryEntityName string
	InitiatingUserID  Identity
	InputParameters   map[string]any
	OutputParameters  map[string]any
}

// StageResult summarises a pre- or post-operation stage
type StageResult struct {
	Applied bool            `json:"applied"`
	Rewrite *RewriteOutcome `json:"rewrite,omitempty"`
	Redact  *RedactOutcome  `json:"redact,omitempty"`
}
