// Package pattern implements the small pattern language shared by grammar
// rules and idiom bodies.
//
// Both use Comby-style holes. `:[name]` names a hole and `:[name...]` names a
// hole that may span several elements. A backslash escapes the next byte.
//
// In idiom bodies the text around holes is copied verbatim and every hole is
// replaced by a binding:
//
//	if :[n] < 2:
//	    return False
//
// In grammar rules the text around holes is a whitespace separated list of
// token predicates:
//
//	write|build          lemma or lower-cased text is one of the words
//	$define              lemma is a member of the synonym class "define"
//	$sum|total           classes and words can be mixed in one alternative list
//	@NOUN|PROPN          coarse category is one of the listed ones
//	!kw                  token carries the keyword flag
//	*                    any number of tokens, including none
//	*~function|$define   a gap that never skips one of the listed words
//	^                    the match must start at the first token
//	?elem                the element may be skipped
//	label=elem           capture the matched token as label
//	:[name]              capture exactly one token
//	:[name...]           capture one or more tokens
//
// A span hole takes as few tokens as possible unless it is the last element,
// in which case it takes the rest of the input. Matching is unanchored: the
// leftmost start position that satisfies every element wins.
package pattern
