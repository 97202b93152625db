package dispatch

import (
	"errors"
	"fmt"

	"github.com/ndk123-web/arthpage/internal/core"
)

// envelopeFor renders a dispatch failure as the message the panel shows.
func envelopeFor(provider core.ProviderKind, err error) core.Envelope {
	kind := core.KindOf(err)
	name := provider.DisplayName()

	var e *core.Error
	errors.As(err, &e)

	var msg string
	switch kind {
	case core.KindEmptyPrompt:
		msg = "Error: Prompt cannot be empty"
	case core.KindMissingCredential:
		msg = core.MissingCredentialMessage(provider)
	case core.KindHTTPError:
		msg = fmt.Sprintf("Error: %s API request failed with status %d", name, e.Status)
	case core.KindMalformedResponse:
		msg = fmt.Sprintf("Error: Unexpected response format from %s API", name)
	case core.KindEmptyUpstreamResponse:
		msg = fmt.Sprintf("Error: %s API returned empty response", name)
	case core.KindUpstreamTimeout:
		msg = e.Err.Error()
	case core.KindUnconfiguredProvider:
		msg = UnconfiguredMessage(string(provider))
	case core.KindNetworkError:
		detail := err
		if e.Err != nil {
			detail = e.Err
		}
		msg = fmt.Sprintf("Error: %s API request failed. %v", name, detail)
	default:
		kind = core.KindNetworkError
		msg = fmt.Sprintf("Error: %s Request Failed. %v", name, err)
	}
	return core.ErrorEnvelope(kind, msg)
}

func UnconfiguredMessage(provider string) string {
	return fmt.Sprintf("Provider %s is not configured.", provider)
}
