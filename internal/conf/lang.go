package conf

// Languages maps label keys to localized strings.
type Languages map[string]string

var defaultLanguages = Languages{
	"untitled":       "Untitled",
	"copy":           "Copy",
	"copyBlockRef":   "Copy block ref",
	"copyBlockEmbed": "Copy block embed",
	"copyProtocol":   "Copy protocol link",
	"copyHPath":      "Copy hpath",
	"copyID":         "Copy ID",
	"selectAll":      "Select all",
	"body":           "Body",
	"close":          "Close",
	"save":           "Save",
	"cancel":         "Cancel",
	"reminderTime":   "Reminder time (YYYY-MM-DD HH:mm, empty to clear)",
	"reminderSet":    "Reminder set",
	"reminderClear":  "Reminder cleared",
	"moved":          "Moved",
	"deleted":        "Deleted",
	"renamed":        "Renamed",
	"attrSaved":      "Attributes saved",
	"noContent":      "The document has no content block",
	"settingsSaved":  "Settings saved",
	"attr":           "Attributes",
	"move":           "Move to",
	"wechatReminder": "WeChat reminder",
	"delete":         "Delete",
	"confirmDelete":  "Are you sure you want to delete",
	"andSubFile":     "and its x sub-docs",
	"outline":        "Outline",
	"backlinks":      "Backlinks",
	"graphView":      "Graph view",
	"modifiedAt":     "Modified at",
	"createdAt":      "Created at",
	"bookmark":       "Bookmark",
	"name":           "Name",
	"alias":          "Alias",
	"memo":           "Memo",
	"refCount":       "References",
	"copied":         "Copied",
	"fileNameError":  "The name contains illegal characters",
	"filterHint":     "type to filter",
	"readOnly":       "The document is read-only",
	"titleTooLong":   "The title is too long",

	"fileTree.alwaysSelectOpenedFile":     "Always select opened document",
	"fileTree.alwaysSelectOpenedFileDesc": "Locate the opened document in the file tree automatically",
	"fileTree.openFilesUseCurrentTab":     "Open in current tab",
	"fileTree.openFilesUseCurrentTabDesc": "Reuse the current tab when opening a document",
	"fileTree.allowCreateDeeper":          "Allow creating deeper documents",
	"fileTree.allowCreateDeeperDesc":      "Permit documents nested more than seven levels deep",
	"fileTree.createDocNameTemplate":      "Document name template",
	"fileTree.createDocNameTemplateDesc":  "Template used to name new documents, empty for untitled",
	"fileTree.refCreateSavePath":          "Ref create save path",
	"fileTree.refCreateSavePathDesc":      "Where documents created from refs are stored, empty for the current notebook",
	"fileTree.maxListCount":               "Maximum listed documents",
	"fileTree.maxListCountDesc":           "Documents listed per folder, between 1 and 10240",
	"fileTree.title":                      "File tree",
}

// DefaultLanguages returns a copy of the built-in English table.
func DefaultLanguages() Languages {
	dup := make(Languages, len(defaultLanguages))
	for k, v := range defaultLanguages {
		dup[k] = v
	}
	return dup
}

// Get returns the localized string for key, falling back to the built-in
// table and finally to the key itself.
func (l Languages) Get(key string) string {
	if v, ok := l[key]; ok && v != "" {
		return v
	}
	if v, ok := defaultLanguages[key]; ok {
		return v
	}
	return key
}

// Merge overlays overrides onto l and returns the result.
func (l Languages) Merge(overrides Languages) Languages {
	out := make(Languages, len(l)+len(overrides))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
