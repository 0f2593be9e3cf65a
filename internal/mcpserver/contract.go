package mcpserver

// LinkFormatContract describes the share-link layout for LLM consumers that
// build or read card links directly.
const LinkFormatContract = `# vibecard Link Format

A card lives entirely in the query string of its share link. Nothing is stored
server-side; whoever has the link has the card.

## Parameters

| param | meaning | encoding |
|---|---|---|
| ` + "`v`" + ` | vibe | lower-case: love, propose, sorry, friend, birthday |
| ` + "`d`" + ` | recipient, sender, message | fields joined with ` + "`|`" + `, then standard base64 of the UTF-8 bytes |
| ` + "`p`" + ` | photo URL (optional) | verbatim; only http(s) URLs, never embedded data: images |

## Rules

1. ` + "`v`" + ` and ` + "`d`" + ` are both required. The vibe is matched case-insensitively.
2. The payload needs at least two fields (recipient, sender). A missing message
   decodes as an empty message.
3. A ` + "`|`" + ` or ` + "`\\`" + ` inside a field is escaped with a backslash (` + "`\\|`" + `, ` + "`\\\\`" + `).
4. Values are URL-escaped: ` + "`+`" + ` becomes ` + "`%2B`" + `, ` + "`/`" + ` becomes ` + "`%2F`" + `, ` + "`=`" + ` becomes ` + "`%3D`" + `.
5. A link that fails any rule opens the home screen instead of a card.

## Example

Card: birthday, to Maya, from Liam, message "Shine on, legend."

` + "```" + `
?v=birthday&d=TWF5YXxMaWFtfFNoaW5lIG9uLCBsZWdlbmQu
` + "```" + `

Prefer the ` + "`encode_card`" + ` and ` + "`compose_card`" + ` tools over building links by hand.
`
