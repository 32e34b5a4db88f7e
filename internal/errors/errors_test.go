package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSiteError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SiteError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
		{
			name:     "warning severity",
			err:      New(CategoryParse, SeverityWarning, "malformed frontmatter"),
			expected: "parse (warning): malformed frontmatter",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestSiteError_WithContext(t *testing.T) {
	err := OutputCollision("my-post/index.html", "content/My Post.md", "content/my-post.md")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["first"] != "content/My Post.md" {
		t.Errorf("Context[first] = %v, want content/My Post.md", err.Context["first"])
	}

	if err.Context["second"] != "content/my-post.md" {
		t.Errorf("Context[second] = %v, want content/my-post.md", err.Context["second"])
	}
}

func TestIsCategory(t *testing.T) {
	collisionErr := OutputCollision("a/index.html", "a.md", "A.md")
	parseErr := FrontmatterParseError("bad.md", fmt.Errorf("yaml: line 2"))
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		expected bool
	}{
		{"collision error matches collision category", collisionErr, CategoryCollision, true},
		{"collision error doesn't match parse category", collisionErr, CategoryParse, false},
		{"parse error matches parse category", parseErr, CategoryParse, true},
		{"standard error doesn't match any category", standardErr, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsCategory(test.err, test.category)
			if result != test.expected {
				t.Errorf("IsCategory() = %v, want %v", result, test.expected)
			}
		})
	}
}

func TestIsSkippable(t *testing.T) {
	if !IsSkippable(FrontmatterParseError("bad.md", fmt.Errorf("yaml"))) {
		t.Error("frontmatter parse errors should be skippable")
	}
	if IsSkippable(TemplateCycle([]string{"a", "b", "a"})) {
		t.Error("template cycles must not be skippable")
	}
	if IsSkippable(stdErrors.New("plain")) {
		t.Error("plain errors must not be skippable")
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := IOFailure("write", "out/index.html", cause)
	if !stdErrors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}
}
