package contents

import (
	"go.uber.org/zap"
)

const MaxBatchItems = 100

const (
	batchStatusSuccess = "success"
	batchStatusError   = "error"
)

// BatchUpsert applies each item independently: an existing code routes to
// update, anything else to create. One failing item never affects another.
func (cs *ContentsService) BatchUpsert(items []BatchItem) (*BatchResult, error) {
	if len(items) == 0 {
		return &BatchResult{Message: "No items to process"}, nil
	}
	if len(items) > MaxBatchItems {
		return nil, ErrBatchTooLarge
	}

	results := make([]BatchItemResult, 0, len(items))
	for _, item := range items {
		data, err := cs.upsertItem(item)
		if err != nil {
			results = append(results, BatchItemResult{Type: item.Type, Status: batchStatusError, Error: err.Error()})
			continue
		}
		results = append(results, BatchItemResult{Type: item.Type, Status: batchStatusSuccess, Data: data})
	}

	cs.logger().Info("batch upsert processed", zap.Int("items", len(items)))
	return &BatchResult{ProcessedCount: len(results), Results: results}, nil
}

func (cs *ContentsService) upsertItem(item BatchItem) (any, error) {
	t, ok := ParseContentType(item.Type)
	if !ok {
		_, err := kindOf(ContentType(item.Type))
		return nil, err
	}

	code := codeFromInput(kinds[t], item.Data)
	if code != "" {
		existing, err := cs.GetContent(t, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return cs.UpdateContent(t, code, item.Data)
		}
	}
	return cs.CreateContent(t, item.Data)
}
