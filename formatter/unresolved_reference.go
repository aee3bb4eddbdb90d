package formatter

// UnresolvedReferenceFormatter adds the resolution note below the snippet so
// the reader knows where call targets are looked up.
type UnresolvedReferenceFormatter struct{}

func (f *UnresolvedReferenceFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{note .Note}}
`
}
