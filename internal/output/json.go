package output

import (
	"encoding/json"
	"fmt"

	"github.com/ukplan/drawdown/internal/domain"
)

// JSONFormatter emits the full result objects for downstream consumers.
type JSONFormatter struct{}

func (f *JSONFormatter) Name() string { return "json" }

func (f *JSONFormatter) Format(results []*domain.PlanResult) ([]byte, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	return data, nil
}
