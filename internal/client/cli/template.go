package cli

import (
	"strings"
	"text/template"
	"time"
)

var templateFuncs = template.FuncMap{
	"join":  strings.Join,
	"short": shortID,
	"time": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Local().Format(time.RFC3339)
	},
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(templateFuncs).Parse(text))
}

var noteTemplate = mustTemplate("note", `
=== Note Details ===

Title:   {{.Note.Title}}
ID:      {{.Note.LocalID}}
{{- if .Note.RemoteID }}
Remote:  {{.Note.RemoteID}} (version {{.Note.RemoteVersion}})
{{- end}}
Status:  {{.Note.SyncStatus}}
{{- if .Tags }}
Tags:    {{join .Tags ", "}}
{{- end}}
Updated: {{time .Note.UpdatedAt}}

---
{{if .HTML}}{{.Note.RenderedBody}}{{else}}{{.Note.Body}}{{end}}
---
`)

var listTemplate = mustTemplate("list", `{{range .}}{{short .LocalID}}  {{printf "%-14s" .SyncStatus}}  {{.Title}}{{if .TagCSV}}  [{{.TagCSV}}]{{end}}
{{end}}`)

var remoteNoteTemplate = mustTemplate("remote", `
=== Server Note ===

Title:   {{.Title}}
ID:      {{.ID}}
Version: {{.Version}}
Editor:  {{.LastEditor}}
{{- if .Tags }}
Tags:    {{join .Tags ", "}}
{{- end}}
Updated: {{time .UpdatedAt}}

---
{{.Body}}
---
`)

var conflictTemplate = mustTemplate("conflict", `
=== Conflict Check: {{.ID}} ===

{{if .HasConflict -}}
Conflict: expected version {{.Incoming.Version}}, server is at version {{.Current.Version}}
{{- else -}}
No conflict: version {{.Current.Version}} is current
{{- end}}
Current editor: {{.Current.Editor}}
{{- if .DivergentFields }}
Differs in:     {{join .DivergentFields ", "}}
{{- end}}

--- server ---
Title: {{.Current.Title}}
Tags:  {{join .Current.Tags ", "}}
{{.Current.Body}}

--- yours ---
Title: {{.Incoming.Title}}
Tags:  {{join .Incoming.Tags ", "}}
{{.Incoming.Body}}
`)

var cycleTemplate = mustTemplate("cycle", `Pushed to server:   {{.Pushed}} ({{.Created}} created, {{.Unchanged}} unchanged)
Deleted on server:  {{.Deleted}}
Pulled from server: {{.Pulled}}
Purged locally:     {{.Purged}}
{{- if .Conflicts }}
Conflicts:          {{.Conflicts}} (kept locally, see 'notekeeper remote conflict')
{{- end}}
{{- if .Failed }}
Failed (retried next cycle): {{.Failed}}
{{- end}}
`)

var statusTemplate = mustTemplate("status", `=== Sync Status ===

{{- if .Online }}
Network:        {{.Online}}
{{- end}}
Last sync:      {{time .Status.LastSyncTime}}
Pending sync:   {{.Status.PendingSyncCount}}
Pending delete: {{.Status.PendingDeleteCount}}
Synced:         {{.Status.TotalSyncedCount}}
{{- if .Status.SyncInProgress }}
Sync in progress...
{{- end}}
`)
