package settings

// Template is one entry of the "New…" submenu.
type Template struct {
	ID       string
	Ext      string
	BaseName string
	Title    string
	Flag     string
}

// Templates in submenu order.
var Templates = []Template{
	{ID: "txt", Ext: ".txt", BaseName: "Untitled Text Document", Title: "Text Document (.txt)", Flag: KeyEnableNewTXT},
	{ID: "docx", Ext: ".docx", BaseName: "Untitled Word Document", Title: "Word Document (.docx)", Flag: KeyEnableNewWord},
	{ID: "xlsx", Ext: ".xlsx", BaseName: "Untitled Spreadsheet", Title: "Excel Spreadsheet (.xlsx)", Flag: KeyEnableNewExcel},
	{ID: "pptx", Ext: ".pptx", BaseName: "Untitled Presentation", Title: "PowerPoint Presentation (.pptx)", Flag: KeyEnableNewPPT},
	{ID: "md", Ext: ".md", BaseName: "Untitled Markdown", Title: "Markdown File (.md)", Flag: KeyEnableNewMarkdown},
}

// FindTemplate looks a template up by id.
func FindTemplate(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// EnabledTemplates returns the templates switched on in s, in order.
func (s *Settings) EnabledTemplates() []Template {
	flags := s.Flags()
	var out []Template
	for _, t := range Templates {
		if flags[t.Flag] {
			out = append(out, t)
		}
	}
	return out
}
