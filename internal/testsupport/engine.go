package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// API keys understood by the fake engine.
const (
	// ValidKey succeeds and writes metadata plus WAV tracks.
	ValidKey = "valid-key"
	// InvalidKey is rejected with "error: InvalidApiKey" and exit status 3.
	InvalidKey = "invalid-key"
	// NoMetadataKey exits 0 without producing any document.
	NoMetadataKey = "no-metadata"
	// GarbageKey exits 0 after producing a document that is not JSON.
	GarbageKey = "garbage"
	// SlowKey replaces the engine with a long sleep.
	SlowKey = "slow"
)

// Environment variables read by the fake engine.
const (
	// FakeEngineLogEnv names a file that receives one line of arguments per run.
	FakeEngineLogEnv = "DDP_FAKE_LOG"
	// FakeEngineTracksEnv sets the number of tracks written (default 2).
	FakeEngineTracksEnv = "DDP_FAKE_TRACKS"
)

// InvalidKeyExitCode is the status the fake engine uses to reject a key.
const InvalidKeyExitCode = 3

const fakeEngineScript = `#!/bin/sh
if [ -n "$DDP_FAKE_LOG" ]; then
	printf '%s\n' "$*" >> "$DDP_FAKE_LOG"
fi

mode="$1"
[ $# -gt 0 ] && shift
case "$mode" in
process)
	in="$1"; out="$2"
	shift 2 ;;
json)
	in="$1"
	shift ;;
*)
	echo "error: unknown command '$mode'" >&2
	exit 2 ;;
esac

key=""
output=""
while [ $# -gt 0 ]; do
	case "$1" in
	--api-key) key="$2"; shift 2 ;;
	--output) output="$2"; shift 2 ;;
	*) echo "error: unexpected argument '$1'" >&2; exit 2 ;;
	esac
done

case "$key" in
valid-key|no-metadata|garbage) ;;
slow) exec sleep 30 ;;
*)
	echo "error: InvalidApiKey" >&2
	exit 3 ;;
esac

tracks="${DDP_FAKE_TRACKS:-2}"
disc=""
if [ -f "$in/DDPID" ]; then
	disc=$(cat "$in/DDPID")
fi
files=$(ls "$in" 2>/dev/null | tr '\n' ' ')

doc() {
	printf '{"disc_id":"%s","input_files":"%s","tracks":[' "$disc" "$files"
	i=1
	while [ "$i" -le "$tracks" ]; do
		if [ "$i" -gt 1 ]; then
			printf ','
		fi
		printf '{"number":%d,"title":"Track %d"}' "$i" "$i"
		i=$((i + 1))
	done
	printf ']}\n'
}

if [ "$mode" = "json" ]; then
	case "$key" in
	no-metadata) exit 0 ;;
	garbage) echo "not json"; exit 0 ;;
	esac
	if [ -n "$output" ]; then
		doc > "$output" || exit 4
	else
		doc
	fi
	exit 0
fi

mkdir -p "$out" || exit 4
echo "processing $in"
echo "warning: fake engine" >&2
case "$key" in
no-metadata) exit 0 ;;
garbage) printf 'not json' > "$out/metadata.json"; exit 0 ;;
esac
doc > "$out/metadata.json"
i=1
while [ "$i" -le "$tracks" ]; do
	printf 'RIFF\044\000\000\000WAVEfmt \020\000\000\000\001\000\002\000\104\254\000\000\020\261\002\000\004\000\020\000data\000\000\000\000' > "$out/$(printf 'track_%02d.wav' "$i")"
	i=$((i + 1))
done
exit 0
`

// WriteFakeEngine writes a shell script that mimics the ddp engine's command
// line contract into dir/ddp and returns its path. Tests that call it are
// skipped on platforms without /bin/sh.
func WriteFakeEngine(t testing.TB, dir string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine requires /bin/sh")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "ddp")
	if err := os.WriteFile(path, []byte(fakeEngineScript), 0o755); err != nil {
		t.Fatalf("write fake engine: %v", err)
	}
	return path
}
