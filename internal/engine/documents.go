package engine

import (
	"os"

	"github.com/juju/errors"

	"github.com/danieljhkim/prod2lab/internal/document"
	"github.com/danieljhkim/prod2lab/internal/planner"
)

func (e *Engine) read(slot planner.Slot, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.NotValidf("empty %s document path", slot)
	}
	data, err := e.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(err, string(slot)+" document "+path)
		}
		return nil, errors.Annotatef(err, "failed to read %s document %s", slot, path)
	}
	return data, nil
}

func (e *Engine) readMaster(path string) (*document.Master, error) {
	data, err := e.read(planner.SlotMaster, path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	m, err := document.ParseMaster(data)
	if err != nil {
		return nil, errors.Annotatef(err, "master document %s", path)
	}
	return m, nil
}

func (e *Engine) readBundle(slot planner.Slot, path string) (*document.Bundle, error) {
	data, err := e.read(slot, path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	b, err := document.ParseBundle(data)
	if err != nil {
		return nil, errors.Annotatef(err, "%s document %s", slot, path)
	}
	return b, nil
}

func (e *Engine) write(slot planner.Slot, path string, v interface{}) (WrittenDocument, error) {
	data, err := document.Marshal(v)
	if err != nil {
		return WrittenDocument{}, errors.Annotatef(err, "failed to encode %s document", slot)
	}
	if err := e.fs.AtomicWrite(path, data, 0644); err != nil {
		return WrittenDocument{}, errors.Annotatef(err, "failed to write %s document %s", slot, path)
	}
	w := WrittenDocument{Slot: slot, Path: path, Checksum: e.hasher.Hash(data)}
	logger.Debugf("wrote %s document %s (sha256 %s)", slot, path, w.Checksum)
	return w, nil
}
