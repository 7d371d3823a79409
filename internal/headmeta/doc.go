// Package headmeta injects search-engine and social-sharing metadata into the
// <head> of an HTML document tree.
//
// A Transformer merges four layers of loosely typed fields into a Context:
//
//	built-in defaults < caller options < document front matter < document meta
//
// and then runs a fixed, ordered list of Rules over the document's head. Each
// rule reads a declared set of Context fields and ensures the node it targets
// exists, addressed by a typed Selector:
//
//   - title, canonical, description and themeColor fill their node once and
//     never overwrite an author-supplied value;
//   - every other single-node rule rewrites its content on each run;
//   - ogImage, ogArticleTag and twitterImage append fresh nodes on every run,
//     so running the transform twice duplicates them.
//
// The Context is immutable once built. Formatting state (the blank line
// emitted before the first inserted node) lives in the Head value scoped to a
// single Transform call.
package headmeta
