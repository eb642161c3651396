package parser

import "snep/internal/diag"

// report counts d and forwards it while the MaxErrors limit allows.
// Recovery goes on either way.
func (p *Parser) report(d diag.Diagnostic) bool {
	isErr := d.Severity >= diag.SevError
	if isErr {
		p.errors++
	}
	if p.opts.Reporter == nil || p.opts.Enough() {
		return false
	}
	if isErr {
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(d)
	return true
}
