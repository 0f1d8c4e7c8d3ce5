package models

import "fmt"

// Source identifies where a posting batch came from. The ATS sources carry
// stable provider IDs; scraped postings are identified by content hash.
type Source string

const (
	SourceGreenhouse      Source = "greenhouse"
	SourceLever           Source = "lever"
	SourceSmartRecruiters Source = "smartrecruiters"
	SourceRecruitee       Source = "recruitee"
	SourceScraped         Source = "scraped"
)

var allSources = []Source{
	SourceGreenhouse,
	SourceLever,
	SourceSmartRecruiters,
	SourceRecruitee,
	SourceScraped,
}

// ParseSource validates a raw source string against the known set.
func ParseSource(s string) (Source, error) {
	for _, src := range allSources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// IsATS reports whether the source supplies its own stable posting IDs.
func (s Source) IsATS() bool {
	switch s {
	case SourceGreenhouse, SourceLever, SourceSmartRecruiters, SourceRecruitee:
		return true
	}
	return false
}

func (s Source) String() string { return string(s) }
