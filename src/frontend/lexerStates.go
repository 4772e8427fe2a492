package frontend

// digits holds the runes of a decimal integer.
const digits = "0123456789"

// lexGlobal starts the lexing process and serves as the default state.
func lexGlobal(l *lexer) stateFunc {
	for {
		r := l.next()
		switch {
		case isAlpha(r) || r == '_' || r == '.':
			// Keyword, identifier or register.
			return lexWord
		case isDigit(r):
			// Number.
			return lexNumber
		case r == '\n':
			// Newline.
			l.ignore()
			l.line++
			l.startOnLine = 1
		case isSpace(r):
			// Ignore whitespace. Newlines are caught before whitespaces.
			// Based on Google's RE2 WHITESPACE class: [\t\n\f\r ]
			l.ignore()
		case r == '/' && l.peek() == '/':
			// Ignore comments.
			for c := l.next(); c != '\n' && c != eof; c = l.next() {
			}
			l.ignore()
			l.line++
			l.startOnLine = 1
		case r == '(' || r == ')' || r == ',':
			l.emit(itemType(r))
		case r == eof:
			// End of file: stop the state machine.
			l.emit(itemEOF)
			return nil
		default:
			return l.errorf("unexpected character %q at line %d:%d", r, l.line, l.startOnLine)
		}
	}
}

// lexWord scans the input string for keywords and identifiers. Identifiers may contain the separators of fully
// qualified variable names, like my_app:main:loop1:myVar or saved-register-x19.
func lexWord(l *lexer) stateFunc {
	// We know that the currently scanned rune is a valid first character.
	for {
		r := l.next()

		// Check if character is valid character.
		if !isAlpha(r) && !isDigit(r) && r != '_' && r != '-' && r != '.' && r != ':' {
			l.backup()
			if kw, typ := isKeyword(l.input[l.start:l.pos]); kw {
				l.emit(typ)
			} else {
				l.emit(itemIdentifier)
			}
			return lexGlobal
		}
	}
}

// lexNumber scans the input stream for an unsigned decimal integer.
// This function accepts zero leading numbers and numbers consisting of all zeros.
func lexNumber(l *lexer) stateFunc {
	// We've scanned the first digit already.
	l.acceptRun(digits)
	if r := l.peek(); isAlpha(r) || r == '_' {
		return l.errorf("malformed integer at line %d:%d", l.line, l.startOnLine)
	}
	l.emit(itemInteger)
	return lexGlobal
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

// isAlpha return true if rune r is an alphabetic character in the set [a-zA-Z].
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit return true if rune r is a digit in the range [0-9].
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isSpace return true if rune r is a whitespace character.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}
