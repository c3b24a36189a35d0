package compat

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/zjrosen/homestead/internal/config"
)

// changeSpec is one catalog entry before message expansion. message is a
// text/template body rendered against the snapshot, so instructions can name
// the paths and identity of the deployment they are shown to.
type changeSpec struct {
	version string
	when    Condition
	message string
}

// builtinChanges is homestead's breaking-change history, oldest first.
// Append-only; versions must stay non-decreasing (NewRegistry enforces it).
var builtinChanges = []changeSpec{
	{
		version: "0.0.8",
		message: `The manifest file was renamed from homestead.yaml to config.yaml.
Rename {{.HomeDir}}/.config/homestead/homestead.yaml accordingly; the old
name is no longer read.`,
	},
	{
		version: "0.0.12",
		message: `Run state moved from {{.HomeDir}}/.homestead to the XDG state directory
({{.HomeDir}}/.local/state/homestead). Move any contents you want to keep,
then delete the old directory.`,
	},
	{
		version: "0.0.14",
		when:    func(snap config.Snapshot) bool { return snap.ServiceEnabled("syncthing") },
		message: `The syncthing unit was renamed from homestead-sync to
homestead-syncthing. Stop and disable the old unit
('systemctl --user disable --now homestead-sync') before the next apply.`,
	},
	{
		version: "0.0.19",
		when:    func(snap config.Snapshot) bool { return snap.ServiceEnabled("backup") },
		message: `The backup service switched its snapshot format. Existing archives in
{{.ServiceDataDir "backup"}} cannot be appended to. Run
'homestead-backup migrate {{.ServiceDataDir "backup"}}' once, or start a
fresh archive directory.`,
	},
	{
		version: "0.0.23",
		when:    func(snap config.Snapshot) bool { return snap.ServiceEnabled("webserver") },
		message: `The webserver now defaults to TLS on port 8443 instead of plain HTTP on
8080. Provide a certificate under {{.ServiceDataDir "webserver"}}/tls or
set the service's listen options explicitly.`,
	},
	{
		version: "0.0.26",
		when:    func(snap config.Snapshot) bool { return snap.ServiceEnabled("gitmirror") },
		message: `Mirrored repositories moved from a flat layout to per-remote
subdirectories under {{.ServiceDataDir "gitmirror"}}. Re-run
'homestead-gitmirror sync --relocate' to move existing mirrors.`,
	},
	{
		version: "0.0.30",
		when:    func(snap config.Snapshot) bool { return snap.ServiceEnabled("mpd") },
		message: `The bundled mpd service was removed. Manage mpd with your distribution's
packages and drop the service from the manifest; its data in
{{.ServiceDataDir "mpd"}} is left untouched.`,
	},
	{
		version: "0.0.33",
		message: `Service units now run under your login user ({{.Username}}) instead of a
shared homestead account. Chown previously created data directories to
{{.Username}} before the next apply.`,
	},
	{
		version: "0.0.38",
		when:    func(snap config.Snapshot) bool { return snap.HasRelativeDataDir() },
		message: `Relative data_dir values are no longer resolved against the working
directory. Replace every relative data_dir in the manifest with an
absolute path.`,
	},
	{
		version: "0.0.41",
		message: `Per-service log files moved from each data directory into
{{.HomeDir}}/.local/state/homestead/log. Log-shipping configs pointing at
the old locations must be updated.`,
	},
}

// NewCatalog expands the builtin change catalog against snap and returns it
// as a validated registry. Message templates resolve at construction; the
// conditions stay unevaluated until gate-check time.
func NewCatalog(snap config.Snapshot) (*Registry, error) {
	changes := make([]Change, 0, len(builtinChanges))
	for _, spec := range builtinChanges {
		msg, err := renderMessage(spec.version, spec.message, snap)
		if err != nil {
			return nil, fmt.Errorf("render change %s: %w", spec.version, err)
		}
		changes = append(changes, Change{
			Version: spec.version,
			When:    spec.when,
			Message: msg,
		})
	}
	return NewRegistry(changes)
}

func renderMessage(version, body string, snap config.Snapshot) (string, error) {
	tmpl, err := template.New(version).Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, snap); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
