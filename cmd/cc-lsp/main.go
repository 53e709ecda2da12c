// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"c0c/internal/langserver"
)

const lsName = "c0c"

var version = "0.1.0"

func main() {
	// Configure debug logging (1 = debug level, nil = default logger).
	commonlog.Configure(1, nil)

	h := langserver.NewHandler()

	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		SetTrace:              h.SetTrace,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidClose:  h.TextDocumentDidClose,
		TextDocumentDidChange: h.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("starting c0c-lsp server...")

	if err := s.RunStdio(); err != nil {
		log.Println("c0c-lsp server error:", err)
		os.Exit(1)
	}
}
