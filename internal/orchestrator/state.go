package orchestrator

import (
	"encoding/json"
	"fmt"

	"github.com/bluecalif/bookforge/internal/model"
	"github.com/bluecalif/bookforge/internal/structure"
)

// loadStructure deserializes the Structure currently applied to book.
func loadStructure(book *model.Book) (structure.Structure, error) {
	var s structure.Structure
	if len(book.StructureBlob) == 0 {
		return s, fmt.Errorf("book %s has no applied structure", book.ID)
	}
	if err := json.Unmarshal(book.StructureBlob, &s); err != nil {
		return s, fmt.Errorf("failed to decode structure blob: %w", err)
	}
	return s, nil
}

// encodeStructure serializes s for storage on Book.StructureBlob.
func encodeStructure(s structure.Structure) ([]byte, error) {
	return json.Marshal(s)
}
