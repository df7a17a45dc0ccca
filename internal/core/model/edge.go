package model

// Link is a directed causal edge: Trigger enabled or caused Result.
// The same shape is used for a candidate edge and for the persisted snapshot.
type Link struct {
	TriggerID string `json:"trigger_id" yaml:"trigger_id"`
	ResultID  string `json:"result_id" yaml:"result_id"`
}
