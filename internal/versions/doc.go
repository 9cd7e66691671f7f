// Package versions resolves the release version of every plugin declared in
// the top-level build configuration.
//
// Two small parsers do the work. ParseBuildConfig scans add_subdirectory
// directives and keeps the names that start with an uppercase letter, which is
// how plugin directories are told apart from shared library directories.
// ParseDescriptor reads line-anchored "#define KEY VALUE" declarations from a
// plugin's version header. Resolver ties them together and reports missing
// descriptors as soft failures and missing or malformed markers as errors.
package versions
