package protocol

// VersionNumber identifies a network protocol version. Versions are totally
// ordered; versions above the latest released one are development versions.
type VersionNumber uint16

// Latest released protocol versions, per protocol family. Everything above
// these is development-only and must not be advertised unless experimental
// versions are enabled.
const (
	LatestReleasedNodeToNodeVersion   VersionNumber = 13
	LatestReleasedNodeToClientVersion VersionNumber = 16
)

// SupportedNodeToNodeVersions returns every node-to-node version this build
// implements, including development versions above the released set.
func SupportedNodeToNodeVersions() map[VersionNumber]struct{} {
	return map[VersionNumber]struct{}{
		11: {}, 12: {}, 13: {}, 14: {}, 15: {},
	}
}

// SupportedNodeToClientVersions returns every node-to-client version this
// build implements, including development versions above the released set.
func SupportedNodeToClientVersions() map[VersionNumber]struct{} {
	return map[VersionNumber]struct{}{
		14: {}, 15: {}, 16: {}, 17: {},
	}
}

// LimitToLatestReleased restricts an advertised version set to the versions
// less-than-or-equal-to latest. When experimental is true the set is returned
// unchanged. The filter is deterministic and monotonic: its result is always
// a down-closed subset of the input, and limiting an already-limited set is a
// no-op.
func LimitToLatestReleased[T any](latest VersionNumber, experimental bool, versions map[VersionNumber]T) map[VersionNumber]T {
	if experimental {
		return versions
	}

	limited := make(map[VersionNumber]T, len(versions))
	for v, data := range versions {
		if v <= latest {
			limited[v] = data
		}
	}
	return limited
}

// LimitNodeToNodeVersions applies LimitToLatestReleased with the node-to-node
// release constant.
func LimitNodeToNodeVersions[T any](experimental bool, versions map[VersionNumber]T) map[VersionNumber]T {
	return LimitToLatestReleased(LatestReleasedNodeToNodeVersion, experimental, versions)
}

// LimitNodeToClientVersions applies LimitToLatestReleased with the
// node-to-client release constant.
func LimitNodeToClientVersions[T any](experimental bool, versions map[VersionNumber]T) map[VersionNumber]T {
	return LimitToLatestReleased(LatestReleasedNodeToClientVersion, experimental, versions)
}
