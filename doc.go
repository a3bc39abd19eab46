// Package htmd converts between HTML and Markdown through a markdown-it
// style token stream.
//
// The pipeline has two halves that meet at []*Token:
//   - HTMLParser tokenizes a restricted, well-formed HTML dialect. Each tag
//     is mapped to a token by a TagResolver looked up by tag name, so the
//     accepted vocabulary is whatever the resolver table holds.
//   - Renderer walks a token stream with an explicit RenderStack. Closing
//     and atomic tokens are turned into Markdown lines by a RenderRule
//     looked up by tag, or by a TokenHandlerRule looked up by token type.
//
// Token streams produced by a Markdown parser (see the mdparse
// subpackage) render back to the source text for the supported subset:
// headings, paragraphs, emphasis, links, images, lists, blockquotes,
// thematic breaks and tables.
//
// Example:
//
//	out, err := htmd.ConvertString(`<h1>Hello</h1><p>HTML in, <em>Markdown</em> out.</p>`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(out)
//
// Tags outside the default tables are added by registering a resolver on
// the parser and a rule on the renderer:
//
//	p := htmd.NewHTMLParser()
//	p.Tags["sup"] = htmd.InlineTokenResolver("sup", htmd.WithMarkup("^"))
//	r := htmd.NewRenderer(htmd.WithRenderRules(map[string]htmd.RenderRule{
//		"sup": htmd.WrapContentRule,
//	}))
//
// Errors are typed and match the sentinels ErrImbalancedTags,
// ErrMalformedClosingTag, ErrUnresolvedTag and ErrRenderRuleNotFound with
// errors.Is.
package htmd
