package glik

import "errors"

// ErrDatasetIDNotSet is returned by every dataset-scoped operation of a DatasetClient
// constructed without a dataset identifier. No request is sent.
var ErrDatasetIDNotSet = errors.New("dataset_id is not set")
