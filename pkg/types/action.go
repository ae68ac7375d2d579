package types

// ConfigFileVerb is the action name of the built-in generate-and-install
// action. It is the only action the template locator understands.
const ConfigFileVerb = "config_file"

// Action is one recorded entry of the deferred action script. Template
// expansion produces actions; nothing touches the filesystem until the
// accumulated actions are executed in a second phase.
//
// Action is a closed sum: ConfigFileAction for the built-in install action,
// PluginAction for everything contributed by plugins.
type Action interface {
	// Verb returns the action name as it appears in the script file
	Verb() string

	// Args returns the action's arguments, already unescaped
	Args() []string
}

// ConfigFileAction requests generation of one named output block of a
// template and its installation to a destination path.
type ConfigFileAction struct {
	// OutputID selects which named output block of the template to emit
	OutputID string

	// DisplayName is the human-facing name shown in logs and prompts
	DisplayName string

	// Destination is the absolute path the generated file is installed to
	Destination string

	// TemplatePath is the template that produced this action
	TemplatePath string
}

// Verb implements Action
func (a ConfigFileAction) Verb() string { return ConfigFileVerb }

// Args implements Action
func (a ConfigFileAction) Args() []string {
	return []string{a.OutputID, a.DisplayName, a.Destination, a.TemplatePath}
}

// PluginAction is an action contributed by a registered plugin verb. The
// interpreter dispatches it to the handler the plugin bound at registration
// time.
type PluginAction struct {
	// Handler is the registered handler name the action dispatches to
	Handler string

	// Arguments are the captured call arguments, already unescaped
	Arguments []string
}

// Verb implements Action
func (a PluginAction) Verb() string { return a.Handler }

// Args implements Action
func (a PluginAction) Args() []string { return a.Arguments }
