package schema

// ActionName names an externally triggered shell action.
type ActionName string

const (
	// ActionSave saves the target tab, prompting for a location only when it has no path.
	ActionSave ActionName = "save"
	// ActionSaveAs saves the target tab to a newly chosen location.
	ActionSaveAs ActionName = "save-as"
	// ActionExportAs exports the target tab in a chosen format.
	ActionExportAs ActionName = "export-as"
	// ActionCloseTab closes the target tab.
	ActionCloseTab ActionName = "close-tab"
	// ActionCloseAllTabs closes every open tab.
	ActionCloseAllTabs ActionName = "close-all-tabs"
	// ActionReopenLastTab reopens the most recently closed file.
	ActionReopenLastTab ActionName = "reopen-last-tab"
	// ActionCreateDiagram creates a blank document.
	ActionCreateDiagram ActionName = "create-diagram"
	// ActionSelectTab cycles the active tab by the payload delta.
	ActionSelectTab ActionName = "select-tab"
	// ActionNavigateBack moves back through the activation history.
	ActionNavigateBack ActionName = "navigate-back"
	// ActionNavigateForward moves forward through the activation history.
	ActionNavigateForward ActionName = "navigate-forward"
)

// Actions lists every action the shell understands.
func Actions() []ActionName {
	return []ActionName{
		ActionSave,
		ActionSaveAs,
		ActionExportAs,
		ActionCloseTab,
		ActionCloseAllTabs,
		ActionReopenLastTab,
		ActionCreateDiagram,
		ActionSelectTab,
		ActionNavigateBack,
		ActionNavigateForward,
	}
}
