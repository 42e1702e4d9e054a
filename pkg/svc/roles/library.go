package roles

import (
	"fmt"
	"strings"
	"text/template"

	"al.essio.dev/pkg/shellescape"
	"github.com/devantler-tech/shipmate/pkg/config"
)

// LibraryVersion stamps rendered libraries so a payload and the control host
// that produced it can be correlated in logs on either side.
const LibraryVersion = "1"

// Library renders the shell function library shared by every payload. The
// whole library ships with each bundle regardless of which role is invoked;
// roles call shared helpers.
//
// The embedded shipmate_init_config function is the serialized form of cfg:
// executing it rebuilds the control host's configuration inside the remote
// interpreter, which starts with none of the caller's environment.
func Library(cfg config.Config) (string, error) {
	tmpl, err := template.New("library").Funcs(template.FuncMap{
		"sq": shellescape.Quote,
	}).Parse(libraryTemplate)
	if err != nil {
		return "", fmt.Errorf("parse role library template: %w", err)
	}

	var rendered strings.Builder

	err = tmpl.Execute(&rendered, libraryData{
		Version:         LibraryVersion,
		Cfg:             cfg,
		ArtifactURL:     cfg.ArtifactURL(),
		ArtifactArchive: cfg.ArtifactArchive(),
	})
	if err != nil {
		return "", fmt.Errorf("render role library: %w", err)
	}

	return rendered.String(), nil
}

type libraryData struct {
	Version         string
	Cfg             config.Config
	ArtifactURL     string
	ArtifactArchive string
}

const libraryTemplate = `# shipmate role library v{{.Version}} (generated, do not edit)

shipmate_init_config() {
    SHIPMATE_ARTIFACT_VERSION={{sq .Cfg.ArtifactVersion}}
    SHIPMATE_ARTIFACT_URL={{sq .ArtifactURL}}
    SHIPMATE_ARTIFACT_ARCHIVE={{sq .ArtifactArchive}}
    SHIPMATE_SOURCE_URL={{sq .Cfg.SourceURL}}
    SHIPMATE_INSTALL_DIR={{sq .Cfg.InstallDir}}
    SHIPMATE_LOG_DIR={{sq .Cfg.LogDir}}
    SHIPMATE_CLUSTER_FILE={{sq .Cfg.ClusterFile}}
    export SHIPMATE_ARTIFACT_VERSION SHIPMATE_ARTIFACT_URL SHIPMATE_ARTIFACT_ARCHIVE
    export SHIPMATE_SOURCE_URL SHIPMATE_INSTALL_DIR SHIPMATE_LOG_DIR SHIPMATE_CLUSTER_FILE
}

shipmate_fetch_artifact() {
    curl -fsSL "${SHIPMATE_ARTIFACT_URL}" -o "/tmp/${SHIPMATE_ARTIFACT_ARCHIVE}"
}

shipmate_install_runtime() {
    mkdir -p "${SHIPMATE_INSTALL_DIR}"
    tar -xzf "/tmp/${SHIPMATE_ARTIFACT_ARCHIVE}" -C "${SHIPMATE_INSTALL_DIR}" --strip-components=1
    chmod 0755 "${SHIPMATE_INSTALL_DIR}/bin/"*
}

shipmate_write_cluster_file() {
    scheduler_address=$1
    mkdir -p "$(dirname "${SHIPMATE_CLUSTER_FILE}")"
    printf '{"scheduler":"%s","version":"%s"}\n' \
        "${scheduler_address}" "${SHIPMATE_ARTIFACT_VERSION}" > "${SHIPMATE_CLUSTER_FILE}"
}

shipmate_install_launcher() {
    daemon=$1
    shift
    launcher="${SHIPMATE_INSTALL_DIR}/bin/launch-${daemon}.sh"
    mkdir -p "${SHIPMATE_INSTALL_DIR}/bin" "${SHIPMATE_LOG_DIR}"
    cat > "${launcher}" <<LAUNCHER
#!/usr/bin/env bash
nohup "${SHIPMATE_INSTALL_DIR}/bin/shipmate-${daemon}" $* \
    >> "${SHIPMATE_LOG_DIR}/${daemon}.log" 2>&1 &
LAUNCHER
    chmod 0755 "${launcher}"
}

shipmate_start_daemon() {
    daemon=$1
    "${SHIPMATE_INSTALL_DIR}/bin/launch-${daemon}.sh"
}

master() {
    scheduler_address=$1
    shipmate_fetch_artifact
    shipmate_install_runtime
    shipmate_write_cluster_file "${scheduler_address}"
    shipmate_install_launcher scheduler --cluster-file "${SHIPMATE_CLUSTER_FILE}"
    shipmate_start_daemon scheduler
}

slave() {
    shipmate_fetch_artifact
    shipmate_install_runtime
    shipmate_install_launcher worker
    shipmate_start_daemon worker
}

build() {
    workdir=$(mktemp -d)
    curl -fsSL "${SHIPMATE_SOURCE_URL}/v${SHIPMATE_ARTIFACT_VERSION}.tar.gz" \
        -o "${workdir}/source.tar.gz"
    mkdir -p "${workdir}/source"
    tar -xzf "${workdir}/source.tar.gz" -C "${workdir}/source" --strip-components=1
    make -C "${workdir}/source" build
    mkdir -p dist
    tar -czf "dist/${SHIPMATE_ARTIFACT_ARCHIVE}" -C "${workdir}/source/out" .
    rm -rf "${workdir}"
}
`
