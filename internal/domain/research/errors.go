package research

import "errors"

// ErrExtractionParse indicates the completion text held no usable JSON object.
var ErrExtractionParse = errors.New("extraction response is not valid json")
