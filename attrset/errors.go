package attrset

import "errors"

// ErrUnsupportedScalar is returned by Normalize when given a value that
// cannot be lifted into an AttrVal.
var ErrUnsupportedScalar = errors.New("attrset: unsupported scalar type")
