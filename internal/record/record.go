package record

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xoChrisCo/video-toolbox/internal/classify"
	"github.com/xoChrisCo/video-toolbox/internal/issues"
	"github.com/xoChrisCo/video-toolbox/internal/sample"
)

// ErrorValue fills the metadata columns of a file whose probe failed.
const ErrorValue = "Error"

// timeLayout renders the file timestamps.
const timeLayout = "2006-01-02 15:04:05"

// FileRecord is the complete inventory result for one media file. Built
// once per input file and not modified after it has been written.
type FileRecord struct {
	// Identity block, derived from the path and the stat call.
	Path     string // absolute or as-discovered path
	Dir      string
	Name     string
	Ext      string // without the leading dot
	Size     int64
	Created  time.Time
	Modified time.Time

	Media  classify.Result
	Issues *issues.Report

	Samples    []sample.Sample
	FolderSubs []string

	// RawJSON is the probe document compacted to one line, set only when
	// the raw column is requested.
	RawJSON string

	// Failed marks a probe failure. The row keeps its identity columns and
	// renders the error sentinel everywhere else; Reason goes to the log
	// and the run statistics, not into the row.
	Failed bool
	Reason string
}

// New builds the record for a successfully probed file.
func New(path string, info os.FileInfo, media classify.Result, report *issues.Report) *FileRecord {
	r := identify(path, info)
	r.Media = media
	r.Issues = report
	return r
}

// NewError builds the fixed-width error sentinel for a file whose probe
// failed. Only the path-derived columns stay real.
func NewError(path string, reason string) *FileRecord {
	r := identify(path, nil)
	r.Failed = true
	r.Reason = reason
	return r
}

func identify(path string, info os.FileInfo) *FileRecord {
	r := &FileRecord{
		Path: path,
		Dir:  filepath.Dir(path),
		Name: filepath.Base(path),
		Ext:  strings.TrimPrefix(filepath.Ext(path), "."),
	}
	if info != nil {
		r.Size = info.Size()
		r.Created = creationTime(info)
		r.Modified = info.ModTime()
	}
	return r
}

// SetRaw stores the probe document for the raw column, compacted so the
// row stays on one line. Malformed input is kept verbatim.
func (r *FileRecord) SetRaw(raw []byte) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		r.RawJSON = string(raw)
		return
	}
	r.RawJSON = buf.String()
}
