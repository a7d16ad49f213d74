package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ruvdl/ruvdl/constant"
	"github.com/ruvdl/ruvdl/filesystem"
	"github.com/ruvdl/ruvdl/util"
	"github.com/samber/lo"
)

// Verification is what Verify found in a series directory.
type Verification struct {
	Job *Job
	Dir string
	// Err is set when the directory or its manifest is missing.
	Err error
	// Missing are expected videos that are not there.
	Missing []string
	// Unexpected are videos that were not expected.
	Unexpected []string
	// Extra are files other than videos and the manifests, reported in strict mode.
	Extra []string
}

func (v *Verification) OK() bool {
	return v.Err == nil && len(v.Missing) == 0 && len(v.Unexpected) == 0 && len(v.Extra) == 0
}

func (v *Verification) String() string {
	if v.Err != nil {
		return v.Err.Error()
	}

	var problems []string
	if len(v.Missing) > 0 {
		problems = append(problems, "missing "+strings.Join(v.Missing, ", "))
	}
	if len(v.Unexpected) > 0 {
		problems = append(problems, "unexpected "+strings.Join(v.Unexpected, ", "))
	}
	if len(v.Extra) > 0 {
		problems = append(problems, "extra "+strings.Join(v.Extra, ", "))
	}
	if len(problems) == 0 {
		return "ok"
	}
	return strings.Join(problems, "; ")
}

var ErrNoTitle = errors.New("series title is required to verify")

// Verify checks the directory of job under root: it must hold info.nfo,
// and when Expect is set exactly the expected .mkv files.
// In strict mode any file other than .mkv, .nfo and .json is reported too.
func Verify(root string, job *Job, strict bool) *Verification {
	v := &Verification{Job: job}
	if job.Title == "" {
		v.Err = ErrNoTitle
		return v
	}

	fs := filesystem.API()
	v.Dir = filepath.Join(root, util.SanitizeFilename(job.Title))

	entries, err := fs.ReadDir(v.Dir)
	if err != nil {
		v.Err = fmt.Errorf("series directory %s: %w", v.Dir, err)
		return v
	}

	if exists, _ := fs.Exists(filepath.Join(v.Dir, constant.ManifestNFO)); !exists {
		v.Err = fmt.Errorf("%s has no %s", v.Dir, constant.ManifestNFO)
		return v
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".mkv":
			videos = append(videos, entry.Name())
		case ".nfo", ".json":
		default:
			if strict {
				v.Extra = append(v.Extra, entry.Name())
			}
		}
	}

	if len(job.Expect) > 0 {
		v.Missing, v.Unexpected = lo.Difference(job.Expect, videos)
		sort.Strings(v.Missing)
		sort.Strings(v.Unexpected)
	}

	return v
}
