package digitization

import "encoding/json"

// mergeResponses combines one response per chunk into the single uniform
// shape describes: element pages rebased by cumulative
// offset, element ids renumbered unique, elements unioned in chunk order,
// usage.pages set to the probed total, and split metadata recorded.
func mergeResponses(responses []Response, chunks []chunk, totalPages int) (Response, error) {
	if len(responses) != len(chunks) {
		return Response{}, errMergeMismatch
	}

	merged := Response{
		Elements: make([]Element, 0, sumElements(responses)),
	}

	nextID := 0
	for i, resp := range responses {
		offset := chunks[i].startPage - 1
		for _, el := range resp.Elements {
			el.Page += offset
			el.ID = nextID
			nextID++
			merged.Elements = append(merged.Elements, el)
		}
		if merged.Model == "" {
			merged.Model = resp.Model
		}
		if merged.APIVersion == "" {
			merged.APIVersion = resp.APIVersion
		}
	}

	merged.Usage = Usage{Pages: totalPages}

	meta := splitMetadata{SplitParsing: len(chunks) > 1, TotalChunks: len(chunks)}
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return Response{}, err
	}
	merged.Metadata = metaBytes

	return merged, nil
}

func sumElements(responses []Response) int {
	n := 0
	for _, r := range responses {
		n += len(r.Elements)
	}
	return n
}

var errMergeMismatch = mergeError("digitization: response/chunk count mismatch")

type mergeError string

func (e mergeError) Error() string { return string(e) }
