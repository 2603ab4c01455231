package xkbregistry

import "encoding/xml"

type xkbConfigRegistry struct {
	XMLName    xml.Name   `xml:"xkbConfigRegistry"`
	LayoutList layoutList `xml:"layoutList"`
	OptionList optionList `xml:"optionList"`
}

type configItem struct {
	Name         string   `xml:"name"`
	Description  string   `xml:"description"`
	LanguageList []string `xml:"languageList>iso639Id"`
	CountryList  []string `xml:"countryList>iso3166Id"`
}

type variant struct {
	ConfigItem configItem `xml:"configItem"`
}

type variantList struct {
	Variant []variant `xml:"variant"`
}

type layout struct {
	ConfigItem  configItem  `xml:"configItem"`
	VariantList variantList `xml:"variantList"`
}

type layoutList struct {
	Layout []layout `xml:"layout"`
}

type option struct {
	ConfigItem configItem `xml:"configItem"`
}

type optionGroup struct {
	ConfigItem configItem `xml:"configItem"`
	Option     []option   `xml:"option"`
}

type optionList struct {
	Group []optionGroup `xml:"group"`
}
