package dispatch

// User-facing replies.
const (
	TextWelcome = "Добро пожаловать в Event Bot! Используйте /event для создания нового события."
	TextHelp    = "Команды:\n" +
		"/event <описание> <количество> - создать событие\n" +
		"/addPlayer <имя> - добавить игрока (ответом на событие)\n" +
		"/removePlayer <имя> - удалить игрока (ответом на событие)\n" +
		"/updateDescription <текст> - изменить описание (ответом на событие)\n" +
		"/updateMax <число> - изменить количество мест (ответом на событие)\n" +
		"/notifyAll <текст> - уведомить участников (ответом на событие)\n" +
		"/addAdmin <ID>, /removeAdmin <ID> - управление админами"

	TextProvideEventInfo      = "Пожалуйста, укажите описание события и максимальное количество участников."
	TextInvalidNumber         = "Пожалуйста, укажите допустимое количество участников."
	TextAlreadyRegistered     = "Вы уже записались."
	TextEventFull             = "Места закончились. Вы не можете записаться."
	TextNotRegistered         = "Вы ещё не записаны."
	TextRSVPConfirmed         = "Вы записаны."
	TextRSVPCanceled          = "Ваша запись отменена."
	TextGuestAdded            = "Гость добавлен."
	TextGuestRemoved          = "Гость удалён."
	TextNoGuest               = "У вас нет гостей."
	TextEventNotFound         = "Событие не найдено."
	TextInvalidAction         = "Несуществующая команда."
	TextNoAccess              = "У вас нет доступа."
	TextInvalidUserID         = "Неправильный ID пользователя."
	TextAdminAdded            = "Админ добавлен."
	TextAdminRemoved          = "Админ удалён."
	TextAdminAlreadyAdded     = "Такой админ уже есть."
	TextAdminNotExist         = "Такого админа нет."
	TextLastAdmin             = "Нельзя удалить единственного админа."
	TextError                 = "Произошла ошибка."
	TextInvalidAddCommand     = "Неверная команда. Используйте /addplayer <имя>"
	TextInvalidRemoveCommand  = "Неверная команда. Используйте /removeplayer <имя>"
	TextReplyToEventMessage   = "Вам нужно ответить на сообщение с событием с этой командой."
	TextPlayerAlreadyInList   = "Этот игрок уже в списке."
	TextPlayerNotInList       = "Этого игрока нет в списке."
	TextInputTooLong          = "Слишком длинный ввод."
	TextNewDescriptionNeeded  = "Пожалуйста, укажите новое описание."
	TextNotificationNeeded    = "Пожалуйста, укажите текст для уведомления."
	TextNoRecipients          = "Нет зарегистрированных участников с аккаунтами Telegram для этого события."
	TextRateLimitedCommand    = "⏱ Слишком много запросов. Подождите %d секунду."
	TextRateLimitedCallback   = "⏱ Слишком много запросов. Подождите %d секунды."
)
