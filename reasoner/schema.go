package reasoner

// Tool names the reasoner exposes to the model. The set is closed: anything
// else coming back from a provider is rejected during decoding.
const (
	toolIssueQuery     = "issue_query"
	toolAcceptEvidence = "accept_evidence"
	toolSubmitAnswer   = "submit_answer"
)

// toolSchemas describes the three loop operations in a provider-agnostic
// shape: name, description and a JSON-schema parameters object. Providers
// translate this into their SDK's native tool format.
func toolSchemas() []map[string]any {
	return []map[string]any{
		{
			"name":        toolIssueQuery,
			"description": "Search the evidence store. Returns raw records into the pending buffer, replacing any unfiltered results from a previous search.",
			"parameters": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Keywords or phrases to search for. Semantic similarity matching; boolean operators are not supported.",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			"name":        toolAcceptEvidence,
			"description": "Accept a subset of the pending results by id, in relevance order. An empty list records that nothing in the results was relevant.",
			"parameters": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ids": map[string]any{
						"type":        "array",
						"description": "Record ids from the pending results to keep as evidence.",
						"items":       map[string]any{"type": "string"},
					},
				},
				"required": []string{"ids"},
			},
		},
		{
			"name":        toolSubmitAnswer,
			"description": "Finish the investigation with an answer backed by the accepted evidence.",
			"parameters": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"answer": map[string]any{
						"type":        "string",
						"description": "The final answer text.",
					},
					"confidence": map[string]any{
						"type":        "string",
						"description": "How strongly the accepted evidence supports the answer.",
						"enum":        []string{"low", "medium", "high"},
					},
				},
				"required": []string{"answer", "confidence"},
			},
		},
	}
}
