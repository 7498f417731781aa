// Package provider implements Suggesters that propose target texts for
// untranslated catalog units.
package provider

import "github.com/ZaguanLabs/autoxliff"

// Suggester is an alias to the main package interface.
type Suggester = autoxliff.Suggester

// SuggestRequest is an alias to the main package type.
type SuggestRequest = autoxliff.SuggestRequest
