// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package glossary

// Command names as registered with the host.
const (
	CommandDefine = "define"
	CommandLookup = "whatis"
	CommandSearch = "search"
	CommandTardis = "tardis"

	CommandRedirect   = "redirect"
	CommandUnredirect = "unredirect"
)

const (
	helpDefine = "!" + CommandDefine + " <entry>: <definition>"
	helpLookup = "!" + CommandLookup + " <entry> [<num>]"
	helpSearch = "!" + CommandSearch + " <search terms>"

	helpRedirect   = "!" + CommandRedirect + " <redirect from>:<redirect to>"
	helpUnredirect = "!" + CommandUnredirect + " <redirect from>"
)

// Docs is the usage text returned for "help" and appended to parse failures.
const Docs = "To define a glossary entry: `" + helpDefine + "`. " +
	"To get a definition: `" + helpLookup + "`. " +
	"To search for entries: `" + helpSearch + "`. " +
	"Pass in an integer >= 1 to get a definition from the history. " +
	"Get a random definition by omitting the entry argument."

const (
	msgOops       = "I didn't understand that. " + Docs
	msgOopsSearch = "I didn't understand that. Try " + helpSearch
	msgEmpty      = "I can't find a single definition. " + Docs

	msgDoubleSeparator = "I can't handle '::' right now. Please try again without it."
	msgInvalidChar     = `"%c" cannot be used in a glossary entry.`
	msgUnchanged       = "That's already the current definition."
	msgDefined         = `Okay! "%s" is now "%s". This is the %s time it has been defined.`

	msgUndefined   = `"%s" is undefined.`
	msgSuggestions = " May I interest you in %s?"
	msgBadVersion  = `"%d" is not a valid glossary entry number for "%s". Valid record numbers are 1-%d.`

	msgSearchFound = "Found glossary entries: %s. To get a definition: !" + CommandLookup + " <entry>"
	msgSearchNone  = "No glossary results found."

	msgRedirectDocs     = "To redirect an entry: `" + helpRedirect + "`. To remove a redirect: `" + helpUnredirect + "`."
	msgOopsRedirect     = "I didn't understand that. Try " + helpRedirect
	msgRedirectAdded    = `"%s" will now redirect to "%s"`
	msgRedirectRemoved  = `"%s" is no longer being redirected to "%s"`
	msgNotRedirected    = `"%s" is not being redirected anywhere.`
	msgRedirectSelf     = `"%s" cannot redirect to itself.`
	msgRedirectChained  = `"%s" is itself being redirected to "%s."`
	msgRedirectTargeted = `"%s" is already the target of a redirect from "%s." Redirects cannot be chained.`
	msgRedirectedDefine = `"%s" redirects to "%s." Redirected entries cannot be defined.`
	msgRedirectVersion  = `"%s" redirects to "%s," which has %d records. Valid record numbers are 1-%d.`

	msgNoSlackURL  = "Slack URL is not configured."
	msgNoChannel   = "I don't know which channel %s was defined in. If it's redefined, I can try again."
	msgArchiveLink = "Attempting to link to Slack archives at %s: %s"
)
