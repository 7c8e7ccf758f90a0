// Package manager owns the process-wide model handle and coordinates chat
// generation against it. It is structured into small files by concern:
//
//   - manager.go: core Manager type, lazy load-once handle acquisition, getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - adapter_iface.go: Loader/Handle interfaces and the options passed to them.
//   - errors.go: typed error kinds and helpers (IsNotFound, IsTooBusy, ...).
//   - prompt.go: chat template rendering (BuildPrompt).
//   - chat.go: Chat entry point (acquire, render, admit, generate, trim).
//   - health.go: file-only health check that never loads the model.
//   - admission.go: single in-flight generation with a bounded wait queue.
//   - events.go, eventpub_*.go: lifecycle events and publishers.
//
// Build tags and runtimes:
//
//   - In-process llama: uses the go-llama.cpp binding. Enabled with `-tags=llama`.
//     Files: adapter_llama.go, llama_cgo.go (linker rpath hints).
//     Without the tag, adapter_llama_stub.go fails every load with a
//     dependency-unavailable error so default builds stay CGO-free.
//
// External packages should use the public methods only (NewWithConfig, Model,
// Chat, Health, Ready, ModelName, Close).
package manager
