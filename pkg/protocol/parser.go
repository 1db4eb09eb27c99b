package protocol

import (
	"regexp"
	"sort"
	"strings"
)

// MaxParallelCalls caps the number of non-finish calls honored per turn.
// Calls beyond the cap are dropped, not deferred to the next turn.
const MaxParallelCalls = 8

// Go's regexp has no backreferences, so each tag family gets its own
// pattern and the matches are merged back into document order by offset.
var (
	grepRe         = regexp.MustCompile(`(?is)<grep>(.*?)</grep>`)
	readRe         = regexp.MustCompile(`(?is)<read>(.*?)</read>`)
	readParallelRe = regexp.MustCompile(`(?is)<read-parallel>(.*?)</read-parallel>`)
	listDirRe      = regexp.MustCompile(`(?is)<list_directory>(.*?)</list_directory>`)
	finishRe       = regexp.MustCompile(`(?is)<finish>(.*?)</finish>`)
	fileRe         = regexp.MustCompile(`(?is)<file>(.*?)</file>`)

	fieldRes = map[string]*regexp.Regexp{
		"pattern": regexp.MustCompile(`(?is)<pattern>(.*?)</pattern>`),
		"sub_dir": regexp.MustCompile(`(?is)<sub_dir>(.*?)</sub_dir>`),
		"glob":    regexp.MustCompile(`(?is)<glob>(.*?)</glob>`),
		"path":    regexp.MustCompile(`(?is)<path>(.*?)</path>`),
		"lines":   regexp.MustCompile(`(?is)<lines>(.*?)</lines>`),
	}
)

type locatedCall struct {
	offset int
	call   Call
}

// ParseCalls extracts the ordered tool calls from one turn's raw model
// output. Tag matching is case-insensitive; text outside tags is ignored.
// Blocks missing required fields are dropped silently, and non-finish calls
// beyond MaxParallelCalls are discarded. ParseCalls never fails: arbitrary
// input degrades to fewer calls, possibly none.
func ParseCalls(output string) []Call {
	var located []locatedCall

	for _, m := range grepRe.FindAllStringSubmatchIndex(output, -1) {
		body := output[m[2]:m[3]]
		pattern := fieldValue(body, "pattern")
		if pattern == "" {
			continue
		}
		located = append(located, locatedCall{m[0], GrepCall{
			Pattern: pattern,
			SubDir:  fieldValue(body, "sub_dir"),
			Glob:    fieldValue(body, "glob"),
		}})
	}

	for _, re := range []*regexp.Regexp{readRe, readParallelRe} {
		for _, m := range re.FindAllStringSubmatchIndex(output, -1) {
			body := output[m[2]:m[3]]
			path := fieldValue(body, "path")
			if path == "" {
				continue
			}
			located = append(located, locatedCall{m[0], ReadCall{
				Path:  path,
				Lines: fieldValue(body, "lines"),
			}})
		}
	}

	for _, m := range listDirRe.FindAllStringSubmatchIndex(output, -1) {
		body := output[m[2]:m[3]]
		path := fieldValue(body, "path")
		if path == "" {
			continue
		}
		located = append(located, locatedCall{m[0], ListDirectoryCall{
			Path:    path,
			Pattern: fieldValue(body, "pattern"),
		}})
	}

	for _, m := range finishRe.FindAllStringSubmatchIndex(output, -1) {
		body := output[m[2]:m[3]]
		var files []FileRequest
		for _, fm := range fileRe.FindAllStringSubmatchIndex(body, -1) {
			fileBody := body[fm[2]:fm[3]]
			path := fieldValue(fileBody, "path")
			if path == "" {
				continue
			}
			files = append(files, FileRequest{
				Path:  path,
				Lines: fieldValue(fileBody, "lines"),
			})
		}
		// A finish with no parseable file entries is still a finish.
		located = append(located, locatedCall{m[0], FinishCall{Files: files}})
	}

	sort.SliceStable(located, func(i, j int) bool {
		return located[i].offset < located[j].offset
	})

	calls := make([]Call, 0, len(located))
	nonFinish := 0
	for _, lc := range located {
		if _, ok := lc.call.(FinishCall); !ok {
			if nonFinish >= MaxParallelCalls {
				continue
			}
			nonFinish++
		}
		calls = append(calls, lc.call)
	}
	return calls
}

func fieldValue(body, field string) string {
	m := fieldRes[field].FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
