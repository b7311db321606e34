// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first: the target struct as passed in (its
// defaults), the YAML file, TDESKTOP_* environment variables, then any map
// loaded with LoadMap (flags). Environment names are matched against the
// known keys so that TDESKTOP_STORAGE_DATA_DIR resolves to
// storage.data_dir rather than storage.data.dir.
//
// Watcher reports changes to one configuration file.
package confloader
