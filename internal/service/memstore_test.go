package service

import (
	"strings"

	"github.com/yourorg/hireloop/internal/storetest"
)

type memStore = storetest.Store

func newMemStore() *memStore { return storetest.New() }

// passthroughSanitizer trims without touching markup, keeping test inputs
// literal.
type passthroughSanitizer struct{}

func (passthroughSanitizer) Plain(s string) string { return strings.TrimSpace(s) }
func (passthroughSanitizer) Rich(s string) string  { return strings.TrimSpace(s) }
