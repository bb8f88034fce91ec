package ledger

import (
	"os"
	"topfived/internal/ledger/interfaces"
	"topfived/internal/providers"
	"topfived/internal/voting"

	json "github.com/goccy/go-json"
)

const fileVersion = 1

// File is the on-disk envelope of the key-value store.
type File struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

type FileManager struct {
	store      *KVStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store *KVStore, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

// NewFileManagerProvider returns the file manager together with a cleanup
// that releases its compressor.
func NewFileManagerProvider(compressor interfaces.CompressorInterface, store *KVStore, logger providers.Logger) (*FileManager, func()) {
	fm := NewFileManager(compressor, store, logger)
	return fm, fm.Close
}

func (f *FileManager) SaveToFile(fileName string) error {
	file := File{Version: fileVersion, Entries: f.store.Snapshot()}

	jsonData, err := json.Marshal(file)
	if err != nil {
		f.store.MarkDirty()
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		f.store.MarkDirty()
		return err
	}

	if err := writeAtomic(fileName, data); err != nil {
		f.store.MarkDirty()
		return err
	}
	return nil
}

func writeAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(decompressed, &file); err == nil && file.Entries != nil {
		f.store.Put(file.Entries)
		return nil
	}

	// An exported browser value: the bare JSON array of pseudo-identities.
	f.logger.Warnf(providers.TypeApp, "Ledger file has no envelope, trying identity history import")
	var ids []string
	if err := json.Unmarshal(decompressed, &ids); err != nil {
		f.logger.Warnf(providers.TypeApp, "Ledger import failed")
		return err
	}
	f.store.Put(map[string]string{voting.AnonymousIDsKey: string(decompressed)})
	f.logger.Warnf(providers.TypeApp, "Imported %d anonymous voter ids", len(ids))
	return nil
}
