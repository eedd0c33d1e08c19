// Package state holds the Device Preview Panel: the single state container
// behind both the terminal UI and the PNG export commands.
//
// # Overview
//
// A Panel owns everything the preview shows:
//
//   - the device selection (a set of catalog ids, displayed in catalog order)
//   - the scale factor, clamped to [MinScale, MaxScale]
//   - the view mode (grid or stack)
//   - the current media reference and the lease behind its locator
//   - the playback controller and its shared play-intent flag
//   - dropdown visibility
//
// # Event Model
//
// The panel has no locks. Bubble Tea delivers every message to Update on one
// goroutine, and Update is the only caller of Panel methods. Background
// producers (the drop-folder watcher, the tick timer, still decoding) only
// send messages into that loop.
//
// # Media Lifecycle
//
//	LoadMedia(f)            DropMedia(f)           ClearMedia() / Close()
//	     │                       │                        │
//	     │                  supported type?               │
//	     │                   no → ignored                 │
//	     ▼                       ▼                        ▼
//	release previous lease ─── allocate lease ───  release current lease
//	reset video instances      flag = playing      reset video instances
//
// A lease releases its locator once; later calls are no-ops. The allocator
// counts creations and releases so tests can check that every creation is
// paired with exactly one release.
//
// # Video Instances
//
// Sync mounts one playback instance per selected device while video is
// loaded and unmounts instances whose device was deselected. It runs after
// every selection or media change, so the controller never holds an instance
// for a frame that is no longer shown.
package state
