package conman

// Short messages (one-liners)
const (
	MsgRootShort = "A template-driven config file manager"
	MsgRootLong = `conman keeps your config files as macro templates in one directory and
materializes them into place. Templates are expanded through an external
macro engine (m4 by default); the expansion records what should happen,
conman then installs each generated file with a backup so hand edits are
detected and never silently overwritten.`

	MsgApplyShort = "Expand all templates and install the results"
	MsgApplyLong = `Apply discovers every template under the config root, expands each one,
and installs the generated files to their destinations.

A destination that still matches its backup is replaced without asking.
A destination that was edited by hand shows a diff and asks first.`

	MsgEditShort = "Open the template that generates an installed file"
	MsgEditLong = `Edit maps an installed file back to the template that generates it and
opens that template in your editor. Edit the template, then run
'conman apply' to reinstall.

Installed files themselves should not be edited: the next apply would
flag the hand edit as a conflict.`

	MsgStatusShort = "Show the state of every managed file"
	MsgStatusLong = `Status lists every file conman has installed and whether each one is
still as installed, modified by hand, or missing.`

	MsgGenConfigShort = "Print or save the configuration"
	MsgGenConfigLong = `Gen-config prints the default configuration as a commented TOML file,
ready to edit. With --resolved it instead prints the configuration as
conman sees it after files and environment overrides are applied. With
--write it saves the defaults to the XDG config dir.`

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
)

// Status messages
const (
	MsgDeclinedNotice = "\nDeclined files were left as they are. Re-run 'conman apply' to be asked again,\nor 'conman apply --force' to overwrite.\n"
)
