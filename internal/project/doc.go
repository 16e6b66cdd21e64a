// Package project models a HotForge project on disk: the hotforge.yaml
// manifest, the .project_config feature-flag file, discovery of hot-module
// sources and shader files, and scanning of @hot annotations in the entry
// script. Manifests are validated against an embedded JSON schema.
package project
