package uiform

import (
	"testing"

	"linguist/internal/domain"
	"linguist/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchForm = `<?xml version="1.0" encoding="UTF-8"?>
<ui version="4.0">
 <class>AdvancedSearchWidget</class>
 <widget class="QWidget" name="AdvancedSearchWidget">
  <property name="windowTitle">
   <string>Advanced Search</string>
  </property>
  <widget class="QLineEdit" name="searchEdit">
   <property name="placeholderText">
    <string comment="search box">Enter search terms...</string>
   </property>
   <property name="styleSheet">
    <string notr="true">padding: 2px;</string>
   </property>
  </widget>
  <widget class="QComboBox" name="typeCombo">
   <item>
    <property name="text">
     <string>Artist</string>
    </property>
   </item>
   <property name="toolTip">
    <string/>
   </property>
  </widget>
 </widget>
 <customwidgets>
  <customwidget>
   <class>EntityListWidget</class>
  </customwidget>
 </customwidgets>
</ui>
`

func TestScanForm(t *testing.T) {
	got, err := New().Scan("../ui/advancedsearchwidget.ui", []byte(searchForm))
	require.NoError(t, err)

	loc := func(line string) domain.Location {
		return domain.Location{Filename: "../ui/advancedsearchwidget.ui", Line: line}
	}
	assert.Equal(t, []ports.ScannedString{
		{Context: "AdvancedSearchWidget", Source: "Advanced Search", Location: loc("6")},
		{Context: "AdvancedSearchWidget", Source: "Enter search terms...", Comment: "search box", Location: loc("10")},
		{Context: "AdvancedSearchWidget", Source: "Artist", Location: loc("19")},
	}, got)
}

func TestScanFormErrors(t *testing.T) {
	_, err := New().Scan("broken.ui", []byte("<ui><class>X</class><widget>"))
	assert.Error(t, err)

	_, err = New().Scan("noclass.ui", []byte("<ui><widget><property><string>Hi</string></property></widget></ui>"))
	assert.ErrorContains(t, err, "no <class>")
}
