package config

const (
	defaultWorkDir           = "."
	defaultSourceRoot        = ".."
	defaultBuildConfig       = "../CMakeLists.txt"
	defaultDescriptorPath    = "source/version.hpp"
	defaultMajorKey          = "MAJOR_VERSION_INT"
	defaultMinorKey          = "SUB_VERSION_INT"
	defaultPatchKey          = "RELEASE_NUMBER_INT"
	defaultManualRoot        = "../docs/manual"
	defaultManualAliases     = "manual.json"
	defaultDocumentationPath = "Contents/Resources/Documentation"
	defaultPresetsRoot       = "../presets"
	defaultPresetsVendor     = "Uhhyou"
	defaultDebugSymbolSuffix = ".dSYM"
	defaultHistoryPath       = "~/.local/share/plugpack/history.db"
	defaultHistoryEnabled    = true
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultFullScopeName     = "full"
	defaultMacOSScopeName    = "macOS"
	defaultMacOSOutputSuffix = "macOS"
	defaultFullStagingDir    = "pack"
	defaultMacOSStagingDir   = "pack_macOS"
	defaultFullZipPattern    = "*.zip"
	defaultFullDirPattern    = "vst_*"
	defaultMacOSZipPattern   = "vst_macOS.zip"
	defaultMacOSDirPattern   = "vst_macOS"
	platformWindows          = "windows"
	platformLinux            = "linux"
	platformMacOS            = "macos"
	defaultJunkDesktopINI    = "desktop.ini"
	defaultJunkPluginIcon    = "PlugIn.ico"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			SourceRoot:  defaultSourceRoot,
			BuildConfig: defaultBuildConfig,
		},
		Versioning: Versioning{
			DescriptorPath: defaultDescriptorPath,
			MajorKey:       defaultMajorKey,
			MinorKey:       defaultMinorKey,
			PatchKey:       defaultPatchKey,
		},
		Manual: Manual{
			Root:              defaultManualRoot,
			Aliases:           defaultManualAliases,
			DocumentationPath: defaultDocumentationPath,
		},
		Presets: Presets{
			Root:   defaultPresetsRoot,
			Vendor: defaultPresetsVendor,
		},
		Collect: Collect{
			DebugSymbolSuffix: defaultDebugSymbolSuffix,
			JunkFiles:         []string{defaultJunkDesktopINI, defaultJunkPluginIcon},
		},
		Scopes: defaultScopes(),
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// defaultScopes returns the macOS-only run followed by the full run.
func defaultScopes() []Scope {
	return []Scope{
		{
			Name:         defaultMacOSScopeName,
			StagingDir:   defaultMacOSStagingDir,
			ZipPatterns:  []string{defaultMacOSZipPattern},
			DirPatterns:  []string{defaultMacOSDirPattern},
			Platforms:    []string{platformMacOS},
			OutputSuffix: defaultMacOSOutputSuffix,
		},
		{
			Name:        defaultFullScopeName,
			StagingDir:  defaultFullStagingDir,
			ZipPatterns: []string{defaultFullZipPattern},
			DirPatterns: []string{defaultFullDirPattern},
			Platforms:   []string{platformWindows, platformLinux, platformMacOS},
			StripJunk:   true,
		},
	}
}
