package ui

import (
	"strings"

	"fyne.io/fyne/v2/lang"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyURLLabel         = "url_label"
	KeyEnterURL         = "enter_url"
	KeyFormatLabel      = "format_label"
	KeyFormatVideo      = "format_video"
	KeyFormatAudio      = "format_audio"
	KeyLocationLabel    = "location_label"
	KeyBrowse           = "browse"
	KeyDownload         = "download"
	KeyReady            = "ready"
	KeyPreparing        = "preparing"
	KeyFetchingInfo     = "fetching_info"
	KeyStartingFmt      = "starting_fmt"
	KeyUnknownTitle     = "unknown_title"
	KeyDownloadingFmt   = "downloading_fmt"
	KeyUnknown          = "unknown"
	KeyProcessing       = "processing"
	KeyDownloadComplete = "download_complete"
	KeyErrorFmt         = "error_fmt"
	KeyPleaseEnterURL   = "please_enter_url"
	KeySettings         = "settings"
	KeyFile             = "file"
	KeyLanguage         = "language"
	KeyEngine           = "engine"
	KeyRateLimit        = "rate_limit"
	KeyInvalidRateLimit = "invalid_rate_limit"
	KeySave             = "save"
	KeyCancel           = "cancel"
	KeySettingsSaved    = "settings_saved"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language; "system" follows the OS locale
func (l *Localization) SetLanguage(code string) {
	if code == "system" {
		code = languageForLocale(string(lang.SystemLocale()))
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// languageForLocale maps an OS locale such as "pt-BR" or "zh-Hant-TW" to a translation
func languageForLocale(locale string) string {
	locale = strings.ReplaceAll(strings.ToLower(locale), "_", "-")
	switch {
	case strings.HasPrefix(locale, "zh"):
		// only the traditional script is translated
		return "zh-TW"
	case strings.HasPrefix(locale, "ru"):
		return "ru"
	case strings.HasPrefix(locale, "pt"):
		return "pt"
	default:
		return "en"
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:         "Media Downloader",
		KeyURLLabel:         "Enter the media link:",
		KeyEnterURL:         "https://www.youtube.com/watch?v=...",
		KeyFormatLabel:      "Choose the download format:",
		KeyFormatVideo:      "Video (mp4)",
		KeyFormatAudio:      "Audio (mp3)",
		KeyLocationLabel:    "Save to:",
		KeyBrowse:           "Browse",
		KeyDownload:         "Download",
		KeyReady:            "Ready",
		KeyPreparing:        "Preparing download...",
		KeyFetchingInfo:     "Fetching media info...",
		KeyStartingFmt:      "Starting download: %s",
		KeyUnknownTitle:     "Unknown title",
		KeyDownloadingFmt:   "Downloading: %s Speed: %s ETA: %s",
		KeyUnknown:          "unknown",
		KeyProcessing:       "Download finished, processing file...",
		KeyDownloadComplete: "Download complete!",
		KeyErrorFmt:         "Error: %s",
		KeyPleaseEnterURL:   "Please enter a valid media link",
		KeySettings:         "Settings",
		KeyFile:             "File",
		KeyLanguage:         "Language",
		KeyEngine:           "Download engine",
		KeyRateLimit:        "Rate limit (KiB/s, 0 = unlimited)",
		KeyInvalidRateLimit: "Rate limit must be a whole number",
		KeySave:             "Save",
		KeyCancel:           "Cancel",
		KeySettingsSaved:    "Settings saved",
	}

	// Traditional Chinese texts
	l.texts["zh-TW"] = map[string]string{
		KeyAppTitle:         "影音下載器",
		KeyURLLabel:         "請輸入影片連結:",
		KeyEnterURL:         "https://www.youtube.com/watch?v=...",
		KeyFormatLabel:      "請選擇下載格式:",
		KeyFormatVideo:      "視訊格式 (mp4)",
		KeyFormatAudio:      "音訊格式 (mp3)",
		KeyLocationLabel:    "下載位置:",
		KeyBrowse:           "瀏覽",
		KeyDownload:         "開始下載",
		KeyReady:            "準備下載",
		KeyPreparing:        "正在準備下載...",
		KeyFetchingInfo:     "獲取影片信息...",
		KeyStartingFmt:      "開始下載: %s",
		KeyUnknownTitle:     "未知標題",
		KeyDownloadingFmt:   "下載中: %s 速度: %s 剩餘時間: %s",
		KeyUnknown:          "未知",
		KeyProcessing:       "下載完成，正在處理文件...",
		KeyDownloadComplete: "下載完成!",
		KeyErrorFmt:         "錯誤: %s",
		KeyPleaseEnterURL:   "請輸入有效的影片連結",
		KeySettings:         "設定",
		KeyFile:             "檔案",
		KeyLanguage:         "語言",
		KeyEngine:           "下載引擎",
		KeyRateLimit:        "速度限制 (KiB/s，0 = 不限)",
		KeyInvalidRateLimit: "速度限制必須是整數",
		KeySave:             "儲存",
		KeyCancel:           "取消",
		KeySettingsSaved:    "設定已儲存",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:         "Загрузчик медиа",
		KeyURLLabel:         "Введите ссылку на видео:",
		KeyEnterURL:         "https://www.youtube.com/watch?v=...",
		KeyFormatLabel:      "Выберите формат загрузки:",
		KeyFormatVideo:      "Видео (mp4)",
		KeyFormatAudio:      "Аудио (mp3)",
		KeyLocationLabel:    "Папка загрузки:",
		KeyBrowse:           "Обзор",
		KeyDownload:         "Скачать",
		KeyReady:            "Готово к загрузке",
		KeyPreparing:        "Подготовка загрузки...",
		KeyFetchingInfo:     "Получение информации о видео...",
		KeyStartingFmt:      "Начало загрузки: %s",
		KeyUnknownTitle:     "Без названия",
		KeyDownloadingFmt:   "Загрузка: %s Скорость: %s Осталось: %s",
		KeyUnknown:          "неизвестно",
		KeyProcessing:       "Загрузка завершена, обработка файла...",
		KeyDownloadComplete: "Загрузка завершена!",
		KeyErrorFmt:         "Ошибка: %s",
		KeyPleaseEnterURL:   "Пожалуйста, введите корректную ссылку",
		KeySettings:         "Настройки",
		KeyFile:             "Файл",
		KeyLanguage:         "Язык",
		KeyEngine:           "Движок загрузки",
		KeyRateLimit:        "Ограничение скорости (КиБ/с, 0 = без ограничений)",
		KeyInvalidRateLimit: "Ограничение скорости должно быть целым числом",
		KeySave:             "Сохранить",
		KeyCancel:           "Отмена",
		KeySettingsSaved:    "Настройки сохранены",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:         "Baixador de Mídia",
		KeyURLLabel:         "Digite o link do vídeo:",
		KeyEnterURL:         "https://www.youtube.com/watch?v=...",
		KeyFormatLabel:      "Escolha o formato:",
		KeyFormatVideo:      "Vídeo (mp4)",
		KeyFormatAudio:      "Áudio (mp3)",
		KeyLocationLabel:    "Salvar em:",
		KeyBrowse:           "Navegar",
		KeyDownload:         "Baixar",
		KeyReady:            "Pronto",
		KeyPreparing:        "Preparando download...",
		KeyFetchingInfo:     "Obtendo informações da mídia...",
		KeyStartingFmt:      "Iniciando download: %s",
		KeyUnknownTitle:     "Título desconhecido",
		KeyDownloadingFmt:   "Baixando: %s Velocidade: %s Restante: %s",
		KeyUnknown:          "desconhecido",
		KeyProcessing:       "Download concluído, processando arquivo...",
		KeyDownloadComplete: "Download concluído!",
		KeyErrorFmt:         "Erro: %s",
		KeyPleaseEnterURL:   "Por favor, digite um link válido",
		KeySettings:         "Configurações",
		KeyFile:             "Arquivo",
		KeyLanguage:         "Idioma",
		KeyEngine:           "Mecanismo de download",
		KeyRateLimit:        "Limite de velocidade (KiB/s, 0 = ilimitado)",
		KeyInvalidRateLimit: "O limite de velocidade deve ser um número inteiro",
		KeySave:             "Salvar",
		KeyCancel:           "Cancelar",
		KeySettingsSaved:    "Configurações salvas",
	}
}
