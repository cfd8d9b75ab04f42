package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = configName + "." + configType

type fileConfig struct {
	DB struct {
		Driver string `yaml:"driver"`
		Host   string `yaml:"host"`
		Name   string `yaml:"name"`
		User   string `yaml:"user"`
		Port   int    `yaml:"port"`
		Path   string `yaml:"path,omitempty"`
	} `yaml:"db"`
	Access struct {
		Backend   string `yaml:"backend"`
		AllowList string `yaml:"allowlist"`
	} `yaml:"access"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// WriteDefault writes a config file holding the built-in defaults to path.
// The password is left out; it must come from DB_PASSWORD. An existing file
// is left untouched and reported with created == false.
func WriteDefault(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	v := New()
	var fc fileConfig
	fc.DB.Driver = v.GetString(KeyDBDriver)
	fc.DB.Host = v.GetString(KeyDBHost)
	fc.DB.Name = v.GetString(KeyDBName)
	fc.DB.User = v.GetString(KeyDBUser)
	fc.DB.Port = v.GetInt(KeyDBPort)
	if fc.DB.Driver == DriverSQLite {
		fc.DB.Path = v.GetString(KeyDBPath)
	}
	fc.Access.Backend = v.GetString(KeyAccessBackend)
	fc.Access.AllowList = v.GetString(KeyAccessAllowList)
	fc.Log.Level = v.GetString(KeyLogLevel)

	data, err := yaml.Marshal(&fc)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	header := []byte("# Library catalog configuration.\n# Set the database password through DB_PASSWORD, never in this file.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}
