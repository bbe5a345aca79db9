package cpptr

import (
	"testing"

	"linguist/internal/domain"
	"linguist/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsSrc = `#include "settingsdialog.h"
class QLabel;

SettingsDialog::SettingsDialog(QWidget *parent)
    : QDialog(parent)
{
    setWindowTitle(tr("Settings"));
}

void SettingsDialog::setupLanguageOptions()
{
    // m_languageCombo->addItem(tr("Klingon"), "tlh");
    m_languageCombo->addItem(tr("System Default"), "system");
    m_languageCombo->addItem(tr("English", "language name"), "en");
    QMessageBox::information(this, tr("Settings Saved"),
                             tr("Say \"hi\"\n"));
    /* tr("hidden")
       tr("still hidden") */ label->setText(QObject::tr("Unknown"));
    auto s = QCoreApplication::translate("MainWindow", "&File");
}
`

func TestScanSettingsDialog(t *testing.T) {
	got, err := New().Scan("../src/ui/settingsdialog.cpp", []byte(settingsSrc))
	require.NoError(t, err)

	loc := func(line string) domain.Location {
		return domain.Location{Filename: "../src/ui/settingsdialog.cpp", Line: line}
	}
	assert.Equal(t, []ports.ScannedString{
		{Context: "SettingsDialog", Source: "Settings", Location: loc("7")},
		{Context: "SettingsDialog", Source: "System Default", Location: loc("13")},
		{Context: "SettingsDialog", Source: "English", Comment: "language name", Location: loc("14")},
		{Context: "SettingsDialog", Source: "Settings Saved", Location: loc("15")},
		{Context: "SettingsDialog", Source: "Say \"hi\"\n", Location: loc("16")},
		{Context: "QObject", Source: "Unknown", Location: loc("18")},
		{Context: "MainWindow", Source: "&File", Location: loc("19")},
	}, got)
}

func TestScanHeaderClassContext(t *testing.T) {
	src := "class ITEMS_EXPORT ItemDetailTab : public QWidget\n{\n    QString title() const { return tr(\"Details\"); }\n};\n"
	got, err := New().Scan("itemdetailtab.h", []byte(src))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ItemDetailTab", got[0].Context)
	assert.Equal(t, "Details", got[0].Source)
}

func TestScanIgnoresFreeFunctionsWithoutContext(t *testing.T) {
	got, err := New().Scan("main.cpp", []byte("int main() {\n  tr(\"orphan\");\n  attr(\"x\");\n}\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

const helpersSrc = `QString getEntityDisplayName(EntityType type)
{
    const struct {
        EntityType type;
        const char* displayName;
    } displayNames[] = {
        {EntityType::Artist, QT_TRANSLATE_NOOP("UiUtils", "Artist")},
        {EntityType::ReleaseGroup, QT_TRANSLATE_NOOP("UiUtils", "Release Group")},
    };
    for (const auto& mapping : displayNames) {
        if (mapping.type == type) {
            return QCoreApplication::translate("UiUtils", mapping.displayName);
        }
    }
    return QCoreApplication::translate("UiUtils", "Unknown");
}

static const char *const kinds[] = { QT_TR_NOOP("Simple"), QT_TRANSLATE_NOOP3("Search", "Advanced", "search mode") };
`

func TestScanNoopMacros(t *testing.T) {
	got, err := New().Scan("widget_helpers.cpp", []byte(helpersSrc))
	require.NoError(t, err)

	var keys []string
	for _, s := range got {
		keys = append(keys, s.Context+"/"+s.Source+"/"+s.Comment+"@"+s.Location.Line)
	}
	assert.Equal(t, []string{
		"UiUtils/Artist/@7",
		"UiUtils/Release Group/@8",
		"UiUtils/Unknown/@15",
		"Search/Advanced/search mode@18",
	}, keys, "QT_TR_NOOP outside a class has no context and a non-literal argument is skipped")
}

func TestScanJoinsLiteralsAcrossLines(t *testing.T) {
	src := `void MainWindow::setupConnections()
{
    connect(ui->actionAbout, &QAction::triggered, [this]() {
        QMessageBox::about(this, tr("About MusicBrainz Qt"),
                           tr("MusicBrainz Qt Client\n\n"
                              "A cross-platform MusicBrainz client allowing you to search, "
                              "browse and edit MusicBrainz data."));
    });
    setStatusTip(tr(
        "Ready", // shown at startup
        "status bar"));
}
`
	got, err := New().Scan("mainwindow.cpp", []byte(src))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "About MusicBrainz Qt", got[0].Source)
	assert.Equal(t, "MusicBrainz Qt Client\n\nA cross-platform MusicBrainz client allowing you to search, browse and edit MusicBrainz data.", got[1].Source)
	assert.Equal(t, "5", got[1].Location.Line)
	assert.Equal(t, ports.ScannedString{Context: "MainWindow", Source: "Ready", Comment: "status bar",
		Location: domain.Location{Filename: "mainwindow.cpp", Line: "9"}}, got[2])
}

func TestScanSkipsUnterminatedCall(t *testing.T) {
	src := "void A::f()\n{\n    tr(\"Fine\");\n    tr(\"Half \"\n       \"done\"\n"
	got, err := New().Scan("a.cpp", []byte(src))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Fine", got[0].Source)
}

func TestScanDecodesCEscapes(t *testing.T) {
	src := `void A::f() { tr("Don\'t"); tr("50\% \x41\101 caf\xc3\xa9 é?\?"); tr("tab\there"); }` + "\n"
	got, err := New().Scan("a.cpp", []byte(src))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Don't", got[0].Source)
	assert.Equal(t, "50% AA café é??", got[1].Source)
	assert.Equal(t, "tab\there", got[2].Source)
}
