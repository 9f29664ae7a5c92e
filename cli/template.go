package cli

// AppHelpTemplate replaces the urfave/cli default, which lists commands that ugrep does not have.
const AppHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}

USAGE:
   {{.UsageText}}

DESCRIPTION:
   {{.Description}}

OPTIONS:
   {{range $index, $option := .VisibleFlags}}{{if $index}}
   {{end}}{{$option}}{{end}}

VERSION:
   {{.Version}}
`
