package pptx

import (
	"bytes"
	"encoding/xml"
	"io"
)

type presentationXML struct {
	SlideIDs []struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
	SlideSize struct {
		CY int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type placeholderXML struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

type xfrmXML struct {
	Off struct {
		Y int64 `xml:"y,attr"`
	} `xml:"off"`
	Ext struct {
		CY int64 `xml:"cy,attr"`
	} `xml:"ext"`
}

type nvPrXML struct {
	Placeholder *placeholderXML `xml:"ph"`
}

type spXML struct {
	NvSpPr struct {
		CNvSpPr struct {
			TxBox string `xml:"txBox,attr"`
		} `xml:"cNvSpPr"`
		NvPr nvPrXML `xml:"nvPr"`
	} `xml:"nvSpPr"`
	SpPr struct {
		Xfrm *xfrmXML `xml:"xfrm"`
	} `xml:"spPr"`
	TxBody *struct {
		Paragraphs []struct {
			Runs []struct {
				Text string `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"txBody"`
}

type picXML struct {
	NvPicPr struct {
		NvPr nvPrXML `xml:"nvPr"`
	} `xml:"nvPicPr"`
	SpPr struct {
		Xfrm *xfrmXML `xml:"xfrm"`
	} `xml:"spPr"`
}

// walkShapeTree reports the top-level sp and pic children of the first
// spTree in document order. Groups, frames and connectors are skipped.
func walkShapeTree(data []byte, onShape func(*spXML), onPicture func(*picXML)) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	inTree := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !inTree {
				if t.Name.Local == "spTree" {
					inTree = true
				}
				continue
			}
			switch t.Name.Local {
			case "sp":
				var sp spXML
				if err := dec.DecodeElement(&sp, &t); err != nil {
					return err
				}
				onShape(&sp)
			case "pic":
				var pic picXML
				if err := dec.DecodeElement(&pic, &t); err != nil {
					return err
				}
				onPicture(&pic)
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if inTree && t.Name.Local == "spTree" {
				return nil
			}
		}
	}
}
