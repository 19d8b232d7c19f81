package feed

import "errors"

// ErrUnknownFormat is returned for a format other than json or rss.
var ErrUnknownFormat = errors.New("unknown feed format")
