package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dgnsrekt/shadowdrill/utils"
)

// watchFile blocks until the sentence file is written or replaced. The
// directory is watched so that editors which save by rename are noticed.
func (m model) watchFile() tea.Msg {
	path := utils.Abs(m.common.cfg.Source)
	dir := filepath.Dir(path)

	if err := m.watcher.Add(dir); err != nil {
		log.Error("error adding dir to fsnotify watcher", "error", err)
		return nil
	}
	log.Info("fsnotify watching dir", "dir", dir)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			return fileChangedMsg{}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "dir", dir, "error", err)
		}
	}
}
