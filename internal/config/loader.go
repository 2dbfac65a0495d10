package config

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"gopkg.in/yaml.v3"
)

// LoadAppConfig reads per-section config files (server, security, signalling,
// webrtc, directory) from dir, preferring .yaml with a .json fallback.
// Missing files keep the defaults; present files override field by field.
func LoadAppConfig(dir string) (*AppConfig, error) {
	cfg := DefaultAppConfig()

	var server ServerConfig
	if err := loadFileInto(dir, "server", &server); err != nil {
		return nil, err
	}
	mergeInto(&cfg.Server, server)

	var security SecurityConfig
	if err := loadFileInto(dir, "security", &security); err != nil {
		return nil, err
	}
	mergeInto(&cfg.Security, security)

	var signalling SignallingConfig
	if err := loadFileInto(dir, "signalling", &signalling); err != nil {
		return nil, err
	}
	mergeInto(&cfg.Signalling, signalling)

	var webRTC WebRTCConfig
	if err := loadFileInto(dir, "webrtc", &webRTC); err != nil {
		return nil, err
	}
	mergeInto(&cfg.WebRTC, webRTC)

	var directory DirectoryConfig
	if err := loadFileInto(dir, "directory", &directory); err != nil {
		return nil, err
	}
	mergeInto(&cfg.Directory, directory)

	return &cfg, nil
}

func loadFileInto(dir, filenameBase string, target interface{}) error {
	basePath := filepath.Join(dir, filenameBase)

	if f, err := os.Open(basePath + ".yaml"); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(target); err != nil {
			if errors.Is(err, io.EOF) {
				slog.Warn("config file is empty, using defaults", "file", basePath+".yaml")
				return nil
			}
			return err
		}
		return nil
	}

	if f, err := os.Open(basePath + ".json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(target); err != nil {
			if errors.Is(err, io.EOF) {
				slog.Warn("config file is empty, using defaults", "file", basePath+".json")
				return nil
			}
			return err
		}
		return nil
	}

	return nil
}

func mergeInto(dst, src interface{}) {
	mergeValues(reflect.ValueOf(dst).Elem(), reflect.ValueOf(src))
}

func mergeValues(dstVal, srcVal reflect.Value) {
	for i := 0; i < srcVal.NumField(); i++ {
		srcField := srcVal.Field(i)
		dstField := dstVal.Field(i)

		switch srcField.Kind() {
		case reflect.Struct:
			mergeValues(dstField, srcField)
		case reflect.Slice:
			if !srcField.IsNil() && srcField.Len() > 0 {
				dstField.Set(srcField)
			}
		case reflect.Pointer:
			if !srcField.IsNil() {
				dstField.Set(srcField)
			}
		default:
			if !srcField.IsZero() {
				dstField.Set(srcField)
			}
		}
	}
}
