package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classifying pipeline failures. Auth and bad-response errors are
// always fatal; fetch errors are fatal or not per vendor pipeline; upload
// errors never abort a run.
var (
	ErrTagAuth        = goerr.NewTag("auth")
	ErrTagFetch       = goerr.NewTag("fetch")
	ErrTagBadResponse = goerr.NewTag("bad_response")
	ErrTagUpload      = goerr.NewTag("upload")
)
