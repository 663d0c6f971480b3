package api

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed info.md
var infoMarkdown []byte

// InfoMarkdown returns the input format help as Markdown.
func InfoMarkdown() string {
	return string(infoMarkdown)
}

const pageHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>bintree</title>
<style>
body { background: #1e1e1e; color: white; font-family: sans-serif; max-width: 48rem; margin: 2rem auto; line-height: 1.5; }
code { background: #2d2d30; padding: 0 .25rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #555; padding: .25rem .5rem; }
</style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`

func renderInfoPage() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	buf.WriteString(pageHeader)
	if err := md.Convert(infoMarkdown, &buf); err != nil {
		return nil, fmt.Errorf("render info page: %w", err)
	}
	buf.WriteString(pageFooter)
	return buf.Bytes(), nil
}
