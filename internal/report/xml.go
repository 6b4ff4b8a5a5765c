package report

// =============================================================================
// XML REPORT
// =============================================================================
//
// STRUCTURE:
//
//   <financialMapping>                               <!-- Root element -->
//     <statement n="1" runId="..." year="2024" success="true">
//       <mapping n="1">                              <!-- numbering is per statement -->
//         <canonicalName>Net Profit</canonicalName>
//         <rawLabel>PAT</rawLabel>
//         <value>500000</value>
//         <confidence>100.00</confidence>
//         <matchMethod>exact</matchMethod>
//         <warnings>
//           <warning>...</warning>
//         </warnings>
//       </mapping>
//       <unmapped n="1">
//         <rawLabel>Misc</rawLabel>
//         <rawValue>12</rawValue>
//       </unmapped>
//       <validation>
//         <error rule="duplicate" field="Net Profit">...</error>
//         <warning rule="null_value" field="Revenue">...</warning>
//       </validation>
//     </statement>
//   </financialMapping>
//
// Empty elements are written self-closing.
//
// =============================================================================

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/financial-mapper/internal/schema"
	"github.com/ginjaninja78/financial-mapper/internal/validation"
)

// XMLOptions controls XML generation.
type XMLOptions struct {
	// Indent is the string used for one level of indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration writes the <?xml ...?> prolog.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement is the name of the root element.
	// Default: "financialMapping"
	RootElement string

	// IndexAttribute is the attribute carrying element positions.
	// Default: "n"
	IndexAttribute string
}

// DefaultXMLOptions returns the default generation options.
func DefaultXMLOptions() XMLOptions {
	return XMLOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "financialMapping",
		IndexAttribute:        "n",
	}
}

// element is a generic XML element: either text or children.
type element struct {
	Name       string
	Attributes []xml.Attr
	Value      string
	Children   []element
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func simple(name, value string) element {
	return element{Name: name, Value: value}
}

// WriteXML writes outs as one XML document.
func WriteXML(w io.Writer, outs []*schema.PipelineOutput, options XMLOptions) error {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	root := element{Name: options.RootElement}
	for i, out := range outs {
		root.Children = append(root.Children, buildStatement(out, i+1, options))
	}
	writeElement(&buffer, root, options.Indent, 0)

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// =============================================================================
// DOCUMENT BUILDING
// =============================================================================

func buildStatement(out *schema.PipelineOutput, index int, options XMLOptions) element {
	stmt := element{
		Name: "statement",
		Attributes: []xml.Attr{
			attr(options.IndexAttribute, strconv.Itoa(index)),
			attr("runId", out.RunID),
		},
	}
	if out.Year != "" {
		stmt.Attributes = append(stmt.Attributes, attr("year", out.Year))
	}
	stmt.Attributes = append(stmt.Attributes, attr("success", strconv.FormatBool(out.Success())))

	for i, m := range out.Mappings {
		stmt.Children = append(stmt.Children, buildMapping(m, i+1, options))
	}

	for i, u := range out.Unmapped {
		stmt.Children = append(stmt.Children, element{
			Name:       "unmapped",
			Attributes: []xml.Attr{attr(options.IndexAttribute, strconv.Itoa(i+1))},
			Children: []element{
				simple("rawLabel", u.RawLabel),
				simple("rawValue", formatRaw(u.RawValue)),
			},
		})
	}

	if issues := append(append([]*validation.Issue{}, out.Errors()...), out.Warnings()...); len(issues) > 0 {
		v := element{Name: "validation"}
		for _, is := range issues {
			name := "warning"
			if is.Severity == validation.SeverityError {
				name = "error"
			}
			e := simple(name, is.Message)
			e.Attributes = []xml.Attr{attr("rule", is.Rule)}
			if is.Field != "" {
				e.Attributes = append(e.Attributes, attr("field", is.Field))
			}
			v.Children = append(v.Children, e)
		}
		stmt.Children = append(stmt.Children, v)
	}

	return stmt
}

func buildMapping(m *schema.MappingResult, index int, options XMLOptions) element {
	e := element{
		Name:       "mapping",
		Attributes: []xml.Attr{attr(options.IndexAttribute, strconv.Itoa(index))},
		Children: []element{
			simple("canonicalName", string(m.CanonicalName)),
			simple("rawLabel", m.RawLabel),
			simple("value", formatValue(m.Value)),
			simple("confidence", strconv.FormatFloat(m.Confidence, 'f', 2, 64)),
			simple("matchMethod", string(m.Method)),
		},
	}

	if len(m.Warnings) > 0 {
		ws := element{Name: "warnings"}
		for _, w := range m.Warnings {
			ws.Children = append(ws.Children, simple("warning", w))
		}
		e.Children = append(e.Children, ws)
	}
	return e
}

// =============================================================================
// SERIALISATION
// =============================================================================

// writeElement writes an element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, e element, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(e.Name)
	for _, a := range e.Attributes {
		fmt.Fprintf(buffer, " %s=\"%s\"", a.Name.Local, escapeXML(a.Value))
	}

	if len(e.Children) == 0 && e.Value == "" {
		buffer.WriteString("/>\n")
		return
	}
	buffer.WriteString(">")

	if len(e.Children) == 0 {
		buffer.WriteString(escapeXML(e.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range e.Children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(e.Name)
	buffer.WriteString(">\n")
}

// escapeXML escapes text for element content and attribute values.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	if err := xml.EscapeText(&buffer, []byte(s)); err != nil {
		return s
	}
	return buffer.String()
}
