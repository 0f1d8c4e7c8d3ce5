package classify

import (
	"reflect"
	"testing"
)

func TestDepartment(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Senior Backend Engineer (Go)", "Engineering"},
		{"Python Developer", "Engineering"},
		{"Data Engineer", "Data"},
		{"Senior Data Scientist", "Data"},
		{"Product Manager - Payments", "Product"},
		{"Technical Recruiter", "HR"},
		{"UX Designer", "Design"},
		{"Office Manager", "Operations"},
		{"Something Unrecognizable", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Department(tc.title); got != tc.want {
			t.Errorf("Department(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestDepartment_FirstMatchWins(t *testing.T) {
	// "machine learning engineer" sits in the Engineering rule, which comes
	// before the broader Data bucket.
	if got := Department("Machine Learning Engineer"); got != "Engineering" {
		t.Fatalf("expected Engineering, got %q", got)
	}
}

func TestTechTags(t *testing.T) {
	cases := []struct {
		title string
		want  []string
	}{
		// Tags come back in rule order, not title order.
		{"Senior Go Developer (Kubernetes & AWS)", []string{"Go", "AWS", "Kubernetes"}},
		{"React/Node.js Engineer", []string{"React", "Node.js"}},
		{"Python & Django Developer", []string{"Python", "Django"}},
		{"Java Developer", []string{"Java"}},
		{"Accountant", nil},
		{"", nil},
	}
	for _, tc := range cases {
		if got := TechTags(tc.title); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("TechTags(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestTechTags_WordBoundary(t *testing.T) {
	// "Go" must not fire on words that merely contain "go".
	if got := TechTags("Category Manager"); got != nil {
		t.Fatalf("expected no tags for Category Manager, got %v", got)
	}
}

func TestTechTagString(t *testing.T) {
	if got := TechTagString("Python Developer (Django, PostgreSQL)"); got != "Python|Django|PostgreSQL" {
		t.Fatalf("unexpected tag string %q", got)
	}
	if got := TechTagString("Accountant"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
