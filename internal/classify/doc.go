// Package classify turns a probe document into flat per-file summaries of
// the video, audio and subtitle streams plus the container. Classification
// is a pure function of the document: every lookup tolerates missing fields,
// and numeric values stay three-state (present, absent, unparseable) until
// the record layer renders them.
package classify
